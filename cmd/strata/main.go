package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┌┬┐┬─┐┌─┐┌┬┐┌─┐
  ╚═╗ │ ├┬┘├─┤ │ ├─┤
  ╚═╝ ┴ ┴└─┴ ┴ ┴ ┴ ┴
`

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:   "strata",
		Short: "Manifest-driven route tables for Go services",
		Long: `Strata compiles route manifests into conflict-checked match tables.

Routes live in a JSON manifest (a local file or an s3:// object), are
validated for conflicts up front, and serve requests through a
priority matcher. Features include:

  • Static over parameter over wildcard match priority
  • Build-time conflict detection with precise errors
  • Per-segment percent decoding that refuses encoded slashes
  • Live route reload without dropping requests
  • Prometheus metrics and OpenTelemetry traces`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		routesCmd(),
		checkCmd(),
		matchCmd(),
		serveCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Strata ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
