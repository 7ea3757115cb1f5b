package main

import (
	"os"

	"github.com/arbornotes/arbor/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
