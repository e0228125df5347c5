package main

import (
	"fmt"
	"time"

	"github.com/phanxgames/lunar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the moon disc to a PNG file",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("date", "", "instant to render (default now)")
	renderCmd.Flags().Float64("size", 256, "disc edge in logical pixels")
	renderCmd.Flags().Float64("dpr", 1, "device pixel ratio")
	renderCmd.Flags().StringP("out", "o", "", "output file (default <snapshot_dir>/<timestamp>_moon.png)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	dateStr, _ := cmd.Flags().GetString("date")
	size, _ := cmd.Flags().GetFloat64("size")
	dpr, _ := cmd.Flags().GetFloat64("dpr")
	out, _ := cmd.Flags().GetString("out")

	if size <= 0 {
		return fmt.Errorf("--size must be positive, got %g", size)
	}
	if dpr <= 0 {
		return fmt.Errorf("--dpr must be positive, got %g", dpr)
	}

	t, _, err := dateArg([]string{dateStr})
	if err != nil {
		return err
	}
	d := lunar.PhaseOf(t)

	start := time.Now()
	img := lunar.RenderImage(d, size, dpr, discConfig())
	logger.Debug("disc painted",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("pixels", img.Bounds().Dx()),
		zap.Stringer("phase", d.Name))

	if out == "" {
		out = appCfg.SnapshotDir + "/" + lunar.SnapshotName("moon", t)
	}
	if err := lunar.WritePNG(out, img); err != nil {
		return err
	}
	logger.Info("rendered", zap.String("file", out), zap.Time("date", t))
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
