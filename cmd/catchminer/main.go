package main

import (
	"fmt"
	"os"

	cmerrors "catchminer/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status: 2 for unusable
// configuration or input, 1 for everything else.
func exitCode(err error) int {
	switch cmerrors.CodeOf(err) {
	case cmerrors.ConfigInvalid, cmerrors.InputNotFound:
		return 2
	}
	return 1
}
