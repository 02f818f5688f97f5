package common

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

type Metrics struct {
	HttpTTFBSeconds     *prometheus.HistogramVec
	HttpReadBodySeconds *prometheus.HistogramVec
	HttpBytesTotal      *prometheus.CounterVec
	HttpErrorsTotal     *prometheus.CounterVec
	DecodeErrorsTotal   *prometheus.CounterVec
	FeedEntities        *prometheus.GaugeVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HttpTTFBSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtfs_http_ttfb_seconds",
				Help:    "Time from API GET to first byte for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		HttpReadBodySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtfs_http_read_body_seconds",
				Help:    "Time to read body of HTTP request from a GTFS-RT HTTP GET response",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		HttpBytesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtfs_http_bytes_total",
				Help: "Bytes downloaded per endpoint",
			},
			[]string{"endpoint"},
		),
		HttpErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtfs_http_errors_total",
				Help: "Failed fetches per endpoint, including non-2xx responses",
			},
			[]string{"endpoint"},
		),
		DecodeErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtfs_decode_errors_total",
				Help: "Payloads that could not be decoded as a FeedMessage",
			},
			[]string{"endpoint"},
		),
		FeedEntities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gtfs_feed_entities",
				Help: "Number of entities in the last decoded feed",
			},
			[]string{"endpoint"},
		),
	}

	registry.MustRegister(
		metrics.HttpTTFBSeconds,
		metrics.HttpReadBodySeconds,
		metrics.HttpBytesTotal,
		metrics.HttpErrorsTotal,
		metrics.DecodeErrorsTotal,
		metrics.FeedEntities,
	)

	return metrics
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry
	logger   *slog.Logger

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string, logger *slog.Logger) *TelemetryServer {
	if logger == nil {
		logger = slog.Default()
	}

	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
		logger:   logger,
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gtfs_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(), // Go runtime metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

func (telemetry *TelemetryServer) Handler() http.Handler {
	return telemetry.mux
}

// Addr reports the bound address once started, which differs from the
// configured one when listening on port 0.
func (telemetry *TelemetryServer) Addr() string {
	if telemetry.listener != nil {
		return telemetry.listener.Addr().String()
	}
	return telemetry.addr
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return fmt.Errorf("telemetry listen on %s: %w", telemetry.addr, err)
	}

	telemetry.listener = listener

	go func() {
		if err := telemetry.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			telemetry.logger.Error("telemetry server stopped", slog.String("error", err.Error()))
		}
	}()

	telemetry.logger.Info("telemetry server started", slog.String("addr", telemetry.Addr()))
	return nil
}

func (telemetry *TelemetryServer) Stop() error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Close()
}

// WriteText dumps every gathered family in the Prometheus text exposition format.
func (telemetry *TelemetryServer) WriteText(w io.Writer) error {
	families, err := telemetry.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
