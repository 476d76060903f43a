// Package config defines the settings of the appcast updater and provides
// helpers to load, validate and save them in YAML format.
//
// Every field has a default matching the project's release workflow, so the
// settings file is optional. The release inputs themselves come from the
// environment variables named here.
package config
