package main

import (
	"os"

	"github.com/hpcforge/go-buildplan/cmd/buildplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
