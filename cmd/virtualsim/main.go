// Command virtualsim runs the virtual content engine against a headless
// document.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/virtualcontent/cmd/virtualsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
