// Command linkedinsights renders LinkedIn analytics exports from the command
// line, one workbook at a time or a whole directory in parallel.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
