// Command thunkgen generates FEX-style thunk-library guest/host source
// pairs from a Go interface-description package.
package main

import (
	"os"

	"github.com/fex-emu/thunkgen/cmd/thunkgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
