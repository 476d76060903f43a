package main

import "github.com/celve/appcast-updater/cmd/appcast-updater/cmd"

func main() {
	cmd.Execute()
}
