package main

import (
	"os"

	"github.com/playbookhq/playbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
