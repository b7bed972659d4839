package main

import (
	"fmt"
	"os"

	"github.com/ironsheep/pixelmap-mcp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pixelmap: %v\n", err)
		os.Exit(1)
	}
}
