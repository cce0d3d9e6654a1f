// Package main provides the entry point for the vlistdemo CLI.
package main

import (
	"os"

	"github.com/aman-cerp/vlist/cmd/vlistdemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
