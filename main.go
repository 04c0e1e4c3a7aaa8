// Package main is the entry point for the snort3 codec engine CLI.
package main

import (
	"fmt"
	"os"

	"github.com/StartiOne/snort3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
