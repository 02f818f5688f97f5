package realtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"bartrix.dev/gtfs-tools/internal/common"
	"bartrix.dev/gtfs-tools/internal/logging"
)

// Session wires one fetch-decode-print pass.
type Session struct {
	Fetcher *Fetcher
	Printer *Printer
	Metrics *common.Metrics
	Logger  *slog.Logger
}

func NewSession(client *http.Client, printer *Printer, metrics *common.Metrics, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Fetcher: NewFetcher(client, metrics),
		Printer: printer,
		Metrics: metrics,
		Logger:  logger,
	}
}

// FetchAndPrint fetches source, decodes it fully and only then prints, so a
// malformed payload never produces entity output.
func (session *Session) FetchAndPrint(ctx context.Context, source string, out io.Writer) (int, error) {
	ctx = logging.WithLogger(ctx, session.Logger)
	benchmarker := common.NewBenchmarker(session.Logger, "fetch-and-print")
	defer benchmarker.Close()

	body, err := common.RuntimeBenchmark(session.Logger, "fetch", func() ([]byte, error) {
		return session.Fetcher.Fetch(ctx, source)
	})
	if err != nil {
		return 0, err
	}

	feedMessage, err := common.RuntimeBenchmark(session.Logger, "decode", func() (*gtfs.FeedMessage, error) {
		return Decode(body)
	})
	if err != nil {
		if session.Metrics != nil {
			session.Metrics.DecodeErrorsTotal.WithLabelValues(source).Inc()
		}
		return 0, fmt.Errorf("%s: %w", source, err)
	}

	if session.Metrics != nil {
		session.Metrics.FeedEntities.WithLabelValues(source).Set(float64(len(feedMessage.GetEntity())))
	}

	header := feedMessage.GetHeader()
	logging.LogOperation(session.Logger, "feed_decoded",
		slog.String("url", source),
		slog.Int("entities", len(feedMessage.GetEntity())),
		slog.String("gtfs_realtime_version", header.GetGtfsRealtimeVersion()),
		slog.Uint64("timestamp", header.GetTimestamp()))

	printed, err := session.Printer.Print(out, feedMessage)
	if err != nil {
		return printed, fmt.Errorf("print: %w", err)
	}

	logging.LogOperation(session.Logger, "feed_printed",
		slog.Int("printed", printed),
		slog.String("format", session.Printer.Format),
		slog.Duration("duration", benchmarker.Elapsed()))

	return printed, nil
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

// Execute performs one fetch-decode-print pass with logging and telemetry
// configured from cfg. Logs and the optional metrics dump go to errOut.
func Execute(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewStructuredLogger(errOut, level).With(slog.String("component", "gtfs_realtime"))

	printer, err := NewPrinter(cfg.Format)
	if err != nil {
		return err
	}

	telemetry := common.NewTelemetryServer(cfg.TelemetryAddr, logger)
	metrics := common.NewMetrics(telemetry.GetRegistry())
	if cfg.TelemetryAddr != "" {
		if err := telemetry.Start(); err != nil {
			return err
		}
		defer telemetry.Stop()
	}

	session := NewSession(nil, printer, metrics, logger)
	_, runErr := session.FetchAndPrint(ctx, cfg.Url, out)

	if cfg.DumpMetrics {
		if err := telemetry.WriteText(errOut); err != nil {
			logging.LogError(logger, "failed to dump metrics", err)
		}
	}

	return runErr
}
