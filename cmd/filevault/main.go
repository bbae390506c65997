package main

import (
	"os"

	"github.com/filevault/backend/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
