// FDRKey - target-decoy FDR estimation for imaging mass spectrometry
package main

import (
	"fmt"
	"os"

	"github.com/ChrisMcGann/FDRKey/cmd/fdrkey/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
