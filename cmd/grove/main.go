// Package main provides the Grove ML library CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Grove ML %s\n", version)
		return
	}

	fmt.Println("Grove ML - Feed-forward classifiers for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/blobs for an end-to-end training walkthrough.")
}
