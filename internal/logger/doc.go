// Package logger wraps zap with a global sugared console logger,
// context helpers (ToContext/FromContext/WithName/WithKV) and level parsing.
//
// Commands attach a named logger to their context and pass it down, so every
// log line of a run carries the same scope.
package logger
