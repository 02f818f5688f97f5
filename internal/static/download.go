package static

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"bartrix.dev/gtfs-tools/internal/logging"
)

// DownloadToTempFile saves the body of url to a temp zip and returns its
// path. The caller removes the file.
func DownloadToTempFile(ctx context.Context, client *http.Client, url string) (string, error) {
	if client == nil {
		client = &http.Client{}
	}
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	response, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer logging.SafeCloseWithLogging(response.Body, logger, "http_response_body")

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", response.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp("", "gtfs-static-*.zip")
	if err != nil {
		return "", err
	}

	written, err := io.Copy(tmpFile, response.Body)
	closeErr := tmpFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write downloaded file to temp location: %w", err)
	}

	logger.Debug("downloaded static feed",
		slog.String("url", url),
		slog.String("path", tmpFile.Name()),
		slog.Int64("bytes", written))

	return tmpFile.Name(), nil
}
