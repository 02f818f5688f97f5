package static

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bartrix.dev/gtfs-tools/internal/logging"
)

// LoadStops resolves the configured source to a local zip and parses its stops.
func LoadStops(ctx context.Context, cfg Config) ([]Stop, error) {
	logger := logging.FromContext(ctx)

	zipPath := cfg.ZipPath
	if cfg.Url != "" {
		var err error
		zipPath, err = DownloadToTempFile(ctx, nil, cfg.Url)
		if err != nil {
			return nil, err
		}
		defer os.Remove(zipPath)
	}

	return ReadStopsFromZip(zipPath, logger)
}

func PrintStops(w io.Writer, stops []Stop) error {
	for _, stop := range stops {
		if _, err := fmt.Fprintln(w, stop.String()); err != nil {
			return err
		}
	}
	return nil
}

func Run(cfg Config, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunContext(ctx, cfg, out, errOut)
}

func RunContext(ctx context.Context, cfg Config, out, errOut io.Writer) int {
	if err := Execute(ctx, cfg, out, errOut); err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return 1
	}
	return 0
}

func Execute(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStructuredLogger(errOut, level).With(slog.String("component", "gtfs_static"))

	ctx = logging.WithLogger(ctx, logger)

	stops, err := LoadStops(ctx, cfg)
	if err != nil {
		return err
	}

	if err := PrintStops(out, stops); err != nil {
		return err
	}

	logging.LogOperation(logger, "stops_printed", slog.Int("stops", len(stops)))
	return nil
}
