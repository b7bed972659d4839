package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/cobra"

	"github.com/ironsheep/pixelmap-mcp/internal/colorspace"
	"github.com/ironsheep/pixelmap-mcp/internal/config"
	"github.com/ironsheep/pixelmap-mcp/internal/engine"
	"github.com/ironsheep/pixelmap-mcp/internal/imaging"
	"github.com/ironsheep/pixelmap-mcp/internal/palette"
)

var (
	quantizePalette       string
	quantizeSpace         string
	quantizeExclude       []int
	quantizeCAM16Weight   float64
	quantizeAllowLarger   bool
	quantizeOut           string
	quantizeGrid          bool
	quantizeGridCells     int
	quantizeGridThickness int
	quantizeGridColor     string
	quantizeJSON          bool
)

var quantizeCmd = &cobra.Command{
	Use:   "quantize <image>",
	Short: "Map an image onto the palette and print entry usage",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuantize,
}

func init() {
	quantizeCmd.Flags().StringVarP(&quantizePalette, "palette", "p", "", "colour DB JSON file (default $"+config.EnvPalette+")")
	quantizeCmd.Flags().StringVarP(&quantizeSpace, "space", "s", "RGB", "colour space: RGB, HSL, HSV or CAM16")
	quantizeCmd.Flags().IntSliceVarP(&quantizeExclude, "exclude", "x", nil, "palette GUIDs to leave out")
	quantizeCmd.Flags().Float64Var(&quantizeCAM16Weight, "cam16-weight", 1, "weight of the lightness term in CAM16")
	quantizeCmd.Flags().BoolVar(&quantizeAllowLarger, "allow-larger", false, fmt.Sprintf("allow images up to %d pixels per side", imaging.MaxDimsLarge))
	quantizeCmd.Flags().StringVarP(&quantizeOut, "out", "o", "", "write the upscaled mapped image to this PNG file")
	quantizeCmd.Flags().BoolVar(&quantizeGrid, "grid", false, "draw the chunk grid on the output image")
	quantizeCmd.Flags().IntVar(&quantizeGridCells, "grid-cells", imaging.DefaultGridCells, "source pixels per grid chunk")
	quantizeCmd.Flags().IntVar(&quantizeGridThickness, "grid-thickness", 1, "grid line width in output pixels")
	quantizeCmd.Flags().StringVar(&quantizeGridColor, "grid-color", "#000000", "grid line colour")
	quantizeCmd.Flags().BoolVar(&quantizeJSON, "json", false, "print counters as JSON")
	rootCmd.AddCommand(quantizeCmd)
}

// quantizeSummary is the --json output.
type quantizeSummary struct {
	Image      string              `json:"image"`
	Width      int                 `json:"width"`
	Height     int                 `json:"height"`
	ColorSpace colorspace.Space    `json:"color_space"`
	Warning    string              `json:"warning,omitempty"`
	Output     string              `json:"output,omitempty"`
	Counters   []engine.CounterRow `json:"counters"`
}

func runQuantize(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if quantizePalette != "" {
		cfg.PalettePath = quantizePalette
	}
	if quantizeAllowLarger {
		cfg.AllowLarger = true
	}
	if cfg.PalettePath == "" {
		return fmt.Errorf("no palette: pass --palette or set %s", config.EnvPalette)
	}

	space, err := colorspace.ParseSpace(quantizeSpace)
	if err != nil {
		return err
	}

	pal, err := palette.LoadFile(cfg.PalettePath)
	if err != nil {
		return err
	}
	logVerbose("palette %s: %d entries", cfg.PalettePath, pal.Len())
	for _, guid := range quantizeExclude {
		if _, ok := pal.ByGUID(guid); !ok {
			return fmt.Errorf("unknown palette GUID %d in --exclude", guid)
		}
	}

	img, err := imaging.NewImageCache().Load(args[0])
	if err != nil {
		return err
	}
	b := img.Image.Bounds()
	check, err := imaging.CheckDimensions(b.Dx(), b.Dy(), cfg.AllowLarger)
	if err != nil {
		return err
	}
	if check.Warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", check.Warning)
	}
	logVerbose("image %s: %dx%d %s, identity %s", args[0], b.Dx(), b.Dy(), img.Format, img.Identity)

	opts := cfg.EngineOptions()
	opts.Progress = func(percent int, phase engine.Phase) {
		logVerbose("%s %d%%", phase, percent)
	}
	coord := engine.NewCoordinator(opts)
	coord.LoadNewImage(img.Image, img.Identity)

	res, err := coord.Quantize(context.Background(), engine.Request{
		Palette:  pal,
		Excluded: palette.NewGUIDSet(quantizeExclude...),
		Space:    space,
		Weights:  colorspace.Weights{CAM16J: quantizeCAM16Weight},
	})
	if err != nil {
		return fmt.Errorf("failed to quantize %s: %w", args[0], err)
	}

	if quantizeOut != "" {
		canvas, ps, err := imaging.RenderMappedImage(res, imaging.RenderOptions{
			ShowGrid:      quantizeGrid,
			GridCells:     quantizeGridCells,
			GridThickness: quantizeGridThickness,
			GridColor:     quantizeGridColor,
		})
		if err != nil {
			return err
		}
		if err := imgio.Save(quantizeOut, canvas, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("failed to write %s: %w", quantizeOut, err)
		}
		logVerbose("wrote %s at %dx scale", quantizeOut, ps)
	}

	var board engine.CounterBoard
	rows := board.Arrange(pal, res, palette.NewGUIDSet())

	if quantizeJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(quantizeSummary{
			Image:      args[0],
			Width:      res.Width,
			Height:     res.Height,
			ColorSpace: res.Space,
			Warning:    check.Warning,
			Output:     quantizeOut,
			Counters:   rows,
		})
	}
	printCounters(cmd.OutOrStdout(), res, rows)
	return nil
}

func printCounters(w io.Writer, res *engine.Result, rows []engine.CounterRow) {
	fmt.Fprintf(w, "%dx%d pixels in %s, %d entries used\n\n", res.Width, res.Height, res.Space, len(rows))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "GUID\tHEX\tCOUNT\t\tNAME")
	total := res.Total()
	for _, r := range rows {
		share := 0.0
		if total > 0 {
			share = float64(r.Count) / float64(total) * 100
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.1f%%\t%s\n", r.GUID, r.Hex, r.Count, share, r.Name)
	}
	tw.Flush()
}
