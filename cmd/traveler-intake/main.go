// Command traveler-intake classifies purchase orders and production travelers
// in a directory, extracts traveler records, computes commitment dates and
// renames the related drawing and traveler files.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "traveler-intake",
	Short:         "Purchase order and traveler intake",
	Long:          "traveler-intake reads purchase orders and production travelers from a directory, extracts the traveler fields, computes the shop commitment date and renames drawings and travelers after the job number.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
}
