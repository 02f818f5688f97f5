package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"bartrix.dev/gtfs-tools/internal/common"
	"bartrix.dev/gtfs-tools/internal/logging"
)

// DefaultFeedURL is the BART trip update feed.
const DefaultFeedURL = "https://api.bart.gov/gtfsrt/tripupdate.aspx"

var ErrHTTPStatus = errors.New("unexpected HTTP status")

type Fetcher struct {
	Client  *http.Client
	Metrics *common.Metrics
}

func NewFetcher(client *http.Client, metrics *common.Metrics) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{Client: client, Metrics: metrics}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Fetch returns the raw payload behind source. Anything that is not an
// http(s) URL is read from the local filesystem.
func (fetcher *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	logger := logging.FromContext(ctx)

	if !isRemote(source) {
		body, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := fetcher.Client.Do(req)
	if err != nil {
		fetcher.countError(source)
		return nil, fmt.Errorf("GET %s: %w", source, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, logger, "http_response_body")

	if fetcher.Metrics != nil {
		fetcher.Metrics.HttpTTFBSeconds.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetcher.countError(source)
		return nil, fmt.Errorf("%w: %d from %s", ErrHTTPStatus, resp.StatusCode, source)
	}

	readStart := time.Now()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fetcher.countError(source)
		return nil, fmt.Errorf("read body from %s: %w", source, err)
	}

	if fetcher.Metrics != nil {
		fetcher.Metrics.HttpReadBodySeconds.WithLabelValues(source).Observe(time.Since(readStart).Seconds())
		fetcher.Metrics.HttpBytesTotal.WithLabelValues(source).Add(float64(len(body)))
	}

	logger.Debug("fetched feed",
		slog.String("url", source),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)))

	return body, nil
}

func (fetcher *Fetcher) countError(source string) {
	if fetcher.Metrics != nil {
		fetcher.Metrics.HttpErrorsTotal.WithLabelValues(source).Inc()
	}
}
