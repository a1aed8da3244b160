package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bluelight/internal/bluelight"
	"github.com/hay-kot/bluelight/internal/metrics"
)

func categoryFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "category",
		Usage:       "only show items whose category matches a glob (e.g. 'Procure*')",
		Sources:     cli.EnvVars("BLUELIGHT_CATEGORY"),
		Destination: dest,
	}
}

// startMetrics serves /metrics and pprof when a port is configured. The
// returned stop function is always safe to call.
func startMetrics(ctx context.Context, port int, app *bluelight.App) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	srv := metrics.NewServer(port, app.Registry)
	if err := srv.Start(ctx); err != nil {
		return func() {}, fmt.Errorf("failed to start metrics server: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/metrics", srv.Addr())).
		Msg("metrics endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown metrics server")
		}
	}, nil
}
