package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/phanxgames/lunar"
	"github.com/phanxgames/lunar/internal/config"
	"github.com/phanxgames/lunar/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var windowCmd = &cobra.Command{
	Use:   "window [date]",
	Short: "Open the interactive timeline window",
	Long: `Open a window with the moon disc and a timeline strip. Drag the strip
left to move forward in time. Edits to the config file's disc theme are
applied live.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().String("script", "", "replay a JSON scrub script")
	windowCmd.Flags().Bool("fps", false, "show FPS/TPS overlay")
	windowCmd.Flags().Bool("details", false, "show terminator angle and next full/new moon")
	rootCmd.AddCommand(windowCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	t, loc, err := dateArg(args)
	if err != nil {
		return err
	}
	details, _ := cmd.Flags().GetBool("details")
	showFPS, _ := cmd.Flags().GetBool("fps")

	cache := lunar.NewPhaseCache(appCfg.CacheCapacity, nil)
	w := lunar.NewWidget(lunar.WidgetConfig{
		InitialDate: t,
		TimeZone:    loc,
		Location:    appCfg.Observer(),
		ShowDetails: details || appCfg.ShowDetails,
		Width:       float64(appCfg.WindowWidth),
		Height:      float64(appCfg.WindowHeight),
		DiscSize:    appCfg.DiscSize,
		Disc:        discConfig(),
		Scrub:       appCfg.ScrubConfig(),
		Cache:       cache,
		OnDateChange: func(date time.Time, d lunar.PhaseDescriptor) {
			logger.Debug("date changed", logging.Phase(d)...)
		},
	})
	defer w.Dispose()
	w.SnapshotDir = appCfg.SnapshotDir
	w.SetDebugMode(appCfg.Debug)

	if path, _ := cmd.Flags().GetString("script"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := lunar.LoadScrubScript(data)
		if err != nil {
			return err
		}
		w.SetScriptRunner(runner)
		w.SetUpdateFunc(func() error {
			if runner.Done() {
				logger.Info("script finished", zap.String("script", path))
				return lunar.ErrQuit
			}
			return nil
		})
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	err = config.Watch(ctx, func(c config.Config) {
		disc, err := c.DiscConfig()
		if err != nil {
			return
		}
		w.QueueDiscConfig(disc)
		logger.Info("disc theme reloaded")
	}, func(err error) {
		logger.Warn("config reload failed", zap.Error(err))
	})
	if err != nil && !errors.Is(err, config.ErrNoConfigFile) {
		return err
	}

	runErr := lunar.Run(w, lunar.RunConfig{
		Title:     "Lunar",
		Width:     appCfg.WindowWidth,
		Height:    appCfg.WindowHeight,
		ShowFPS:   showFPS,
		Resizable: true,
	})
	logger.Debug("window closed", logging.Cache(cache.Stats())...)
	return runErr
}
