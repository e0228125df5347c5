package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/phanxgames/lunar"
	"github.com/phanxgames/lunar/internal/config"
	"github.com/phanxgames/lunar/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// Logger, built in PersistentPreRunE.
	logger = zap.NewNop()
	// Loaded configuration, shared by subcommands.
	appCfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lunar",
	Short: "Moon phase calculator, renderer and timeline",
	Long: `lunar computes the phase of the Moon for any instant, paints the disc,
and hosts an interactive timeline you can scrub through with the mouse.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appCfg = cfg
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("config loaded", zap.String("file", f))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .lunar.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("tz", "", "IANA time zone for dates (default local)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("tz"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".lunar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("LUNAR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// dateArg resolves an optional date argument in the configured zone.
func dateArg(args []string) (time.Time, *time.Location, error) {
	loc, err := appCfg.Location()
	if err != nil {
		return time.Time{}, nil, err
	}
	if len(args) == 0 || args[0] == "" {
		return time.Now().In(loc), loc, nil
	}
	t, err := lunar.ParseDate(args[0], loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("invalid date: %w", err)
	}
	return t.In(loc), loc, nil
}

// discConfig returns the configured disc look.
func discConfig() lunar.DiscConfig {
	// Validated by config.Load.
	d, _ := appCfg.DiscConfig()
	return d
}
