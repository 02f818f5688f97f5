package main

import (
	"os"

	"bartrix.dev/gtfs-tools/internal/static"
)

func main() {
	os.Exit(static.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
