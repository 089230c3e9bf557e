package main

import (
	"os"

	"sitewatch-orchestrator/cmd/sitewatch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
