package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dustup/cmd/dustup"
)

func main() {
	rootCmd := dustup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, dustup.FormatError(err))
		os.Exit(1)
	}
}
