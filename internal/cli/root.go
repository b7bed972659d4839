// Package cli implements the pixelmap command line tool: batch palette
// quantization of image files without an MCP client.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pixelmap",
	Short: "Map images onto a fixed colour palette",
	Long: `pixelmap quantizes an image against a colour database: every pixel is
replaced by the nearest checked palette entry in RGB, HSL, HSV or CAM16-UCS.

The mapped image is written upscaled, optionally with a chunk grid, and the
per-entry usage counts are printed.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"pixelmap %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[pixelmap] "+format+"\n", args...)
	}
}
