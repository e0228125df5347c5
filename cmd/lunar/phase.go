package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phanxgames/lunar"
	"github.com/phanxgames/lunar/internal/logging"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var phaseCmd = &cobra.Command{
	Use:   "phase [date]",
	Short: "Print the phase of the Moon",
	Long: `Print the phase of the Moon at the given instant (RFC 3339, YYYY-MM-DDTHH:MM
or YYYY-MM-DD; default now). Dates without an offset are read in --tz.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPhase,
}

func init() {
	phaseCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(phaseCmd)
}

// phaseReport is the machine-readable output of the phase command.
type phaseReport struct {
	Date     time.Time             `json:"date" yaml:"date"`
	Phase    lunar.PhaseDescriptor `json:"phase" yaml:"phase"`
	NextFull time.Time             `json:"nextFull" yaml:"nextFull"`
	NextNew  time.Time             `json:"nextNew" yaml:"nextNew"`
	Observer *lunar.Location       `json:"observer,omitempty" yaml:"observer,omitempty"`
}

func runPhase(cmd *cobra.Command, args []string) error {
	t, loc, err := dateArg(args)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	d := lunar.PhaseAt(t, lunar.PhaseOptions{Location: appCfg.Observer(), TimeZone: loc})
	logger.Debug("phase computed", logging.Phase(d)...)

	report := phaseReport{
		Date:     t,
		Phase:    d,
		NextFull: lunar.NextFullMoon(t),
		NextNew:  lunar.NextNewMoon(t),
		Observer: appCfg.Observer(),
	}
	return writeReport(cmd.OutOrStdout(), format, report)
}

func writeReport(w io.Writer, format string, r phaseReport) error {
	switch strings.ToLower(format) {
	case "text", "":
		_, err := fmt.Fprintf(w, "%s  %s\n%s\n", r.Phase.Name.Symbol(), r.Date.Format(time.RFC1123),
			strings.Join(lunar.FormatInfo(r.Phase, true), "\n"))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
