// Package main exports the stored round history to CSV.
package main

import (
	"os"

	exportcmd "github.com/louisbranch/mindvsmachine/internal/cmd/export"
)

func main() {
	os.Exit(exportcmd.Main(os.Args[1:]))
}
