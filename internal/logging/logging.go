// Package logging builds the zap logger used by the lunar command.
package logging

import (
	"fmt"

	"github.com/phanxgames/lunar"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger on stderr. Verbose lowers the level to
// debug.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Phase returns structured fields describing d.
func Phase(d lunar.PhaseDescriptor) []zap.Field {
	return []zap.Field{
		zap.Time("instant", d.Instant),
		zap.Stringer("phase", d.Name),
		zap.Float64("illumination", d.Illumination),
		zap.Float64("lunar_age", d.LunarAge),
		zap.Bool("waxing", d.IsWaxing),
	}
}

// Cache returns structured fields for cache counters.
func Cache(s lunar.CacheStats) []zap.Field {
	return []zap.Field{
		zap.Uint64("hits", s.Hits),
		zap.Uint64("misses", s.Misses),
		zap.Uint64("evictions", s.Evictions),
	}
}
