package main

import (
	"os"

	"bartrix.dev/gtfs-tools/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
