// Command minic is the command line front end of the minic transpiler.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "minic:", err)
		os.Exit(1)
	}
}
