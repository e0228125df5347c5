package main

import (
	"github.com/phanxgames/lunar"
	"github.com/phanxgames/lunar/internal/termview"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [date]",
	Short: "Scrub moon phases in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, loc, err := dateArg(args)
		if err != nil {
			return err
		}
		return termview.Run(termview.Config{
			Date:        t,
			TimeZone:    loc,
			Disc:        discConfig(),
			Cache:       lunar.NewPhaseCache(appCfg.CacheCapacity, nil),
			ShowDetails: appCfg.ShowDetails,
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
