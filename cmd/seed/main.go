// Package main fills the local round history with demo data.
package main

import (
	"os"

	seedcmd "github.com/louisbranch/mindvsmachine/internal/cmd/seed"
)

func main() {
	os.Exit(seedcmd.Main(os.Args[1:]))
}
