// Command subband compresses grayscale images with the Haar subband codec,
// reconstructs them and applies simple enhancement filters.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
