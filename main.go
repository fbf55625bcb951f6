package main

import (
	"fmt"
	"os"
)

// main entry point to running, rolling out and plotting experiments
func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
