package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

var paletteJSON bool

var paletteCmd = &cobra.Command{
	Use:   "palette <colour_db.json>",
	Short: "List the entries of a colour DB",
	Args:  cobra.ExactArgs(1),
	RunE:  runPalette,
}

func init() {
	paletteCmd.Flags().BoolVar(&paletteJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	pal, err := palette.LoadFile(args[0])
	if err != nil {
		return err
	}
	logVerbose("loaded %d entries from %s", pal.Len(), args[0])

	w := cmd.OutOrStdout()
	if paletteJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pal.Entries())
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GUID\tHEX\tNAME")
	for _, e := range pal.Entries() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.GUID, e.Hex(), e.Name)
	}
	return tw.Flush()
}
