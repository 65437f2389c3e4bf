// Command vitrine builds and serves a product catalog site.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	domainerr "vitrine/internal/domain/errors"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for an invalid configuration and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, domainerr.ErrInvalid) {
		return 2
	}
	return 1
}
