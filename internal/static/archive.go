package static

import (
	"archive/zip"
	"errors"
	"fmt"
	"log/slog"
	"path"
)

var GtfsRequiredFiles = []string{
	"agency.txt",
	"routes.txt",
	"trips.txt",
	"stops.txt",
	"stop_times.txt",
}

var ErrNoStopsFile = errors.New("archive has no stops.txt")

// MissingRequiredFiles lists required GTFS files absent from the archive.
// Files nested one directory deep are accepted, as some agencies zip a folder.
func MissingRequiredFiles(reader *zip.Reader) []string {
	present := map[string]bool{}
	for _, file := range reader.File {
		if !file.FileInfo().IsDir() {
			present[path.Base(file.Name)] = true
		}
	}

	var missing []string
	for _, required := range GtfsRequiredFiles {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

func ReadStopsFromZip(zipPath string, logger *slog.Logger) ([]Stop, error) {
	if logger == nil {
		logger = slog.Default()
	}

	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", zipPath, err)
	}
	defer archive.Close()

	if missing := MissingRequiredFiles(&archive.Reader); len(missing) > 0 {
		logger.Warn("static feed is incomplete",
			slog.String("path", zipPath),
			slog.Any("missing", missing))
	}

	for _, file := range archive.File {
		if file.FileInfo().IsDir() || path.Base(file.Name) != "stops.txt" {
			continue
		}

		contents, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", file.Name, zipPath, err)
		}
		defer contents.Close()

		stops, err := ParseStops(contents)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Name, err)
		}
		return stops, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoStopsFile, zipPath)
}
