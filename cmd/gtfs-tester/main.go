package main

import (
	"os"

	"bartrix.dev/gtfs-tools/internal/realtime"
)

func main() {
	os.Exit(realtime.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
