package static

import (
	"archive/zip"
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bartrix.dev/gtfs-tools/internal/logging"
)

var bartStops = strings.Join([]string{
	"stop_id,stop_code,stop_name,stop_desc,stop_lat,stop_lon,zone_id,stop_url,location_type,parent_station,platform_code",
	`12TH,12TH,12th St. Oakland City Center,,37.803768,-122.271450,12TH,http://www.bart.gov/stations/12TH/,0,,`,
	`CIVC,CIVC,"Civic Center/UN Plaza, SF",,37.779732,-122.414123,CIVC,http://www.bart.gov/stations/CIVC/,0,,`,
}, "\n")

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "google_transit.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, files), 0o644))
	return path
}

func completeFeed() map[string]string {
	return map[string]string{
		"agency.txt":     "agency_id,agency_name,agency_url,agency_timezone\nBART,Bay Area Rapid Transit,https://www.bart.gov,America/Los_Angeles",
		"routes.txt":     "route_id\nYellow",
		"trips.txt":      "trip_id\n1",
		"stop_times.txt": "trip_id,stop_id\n1,12TH",
		"stops.txt":      bartStops,
	}
}

func TestParseStopsHandlesQuotedCommas(t *testing.T) {
	stops, err := ParseStops(strings.NewReader(bartStops))
	require.NoError(t, err)
	require.Len(t, stops, 2)

	assert.Equal(t, "12TH", stops[0].ID)
	assert.Equal(t, "12th St. Oakland City Center", stops[0].Name)
	assert.InDelta(t, 37.803768, stops[0].Lat, 1e-9)
	assert.InDelta(t, -122.271450, stops[0].Lon, 1e-9)

	assert.Equal(t, "Civic Center/UN Plaza, SF", stops[1].Name)
	assert.Equal(t, "http://www.bart.gov/stations/CIVC/", stops[1].URL)
	assert.Equal(t, "0", stops[1].LocationType)
}

func TestParseStopsMatchesColumnsByHeader(t *testing.T) {
	input := "\ufeffstop_name,stop_lon,stop_id,stop_lat\nMontgomery St.,-122.401,MONT,37.789\n"

	stops, err := ParseStops(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, Stop{ID: "MONT", Name: "Montgomery St.", Lat: 37.789, Lon: -122.401}, stops[0])
}

func TestParseStopsEmptyCoordinates(t *testing.T) {
	stops, err := ParseStops(strings.NewReader("stop_id,stop_lat,stop_lon\nENTR,,\n"))
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Zero(t, stops[0].Lat)
	assert.Zero(t, stops[0].Lon)
}

func TestParseStopsErrors(t *testing.T) {
	_, err := ParseStops(strings.NewReader("stop_name\nNowhere\n"))
	assert.ErrorIs(t, err, ErrMissingStopID)

	_, err = ParseStops(strings.NewReader("stop_id,stop_lat,stop_lon\nBAD,north,-122\n"))
	assert.ErrorContains(t, err, "line 2: stop_lat")

	_, err = ParseStops(strings.NewReader("stop_id,stop_name\nA,One,extra\n"))
	assert.Error(t, err)

	_, err = ParseStops(strings.NewReader(""))
	assert.Error(t, err)
}

func TestStopString(t *testing.T) {
	stop := Stop{ID: "MONT", Code: "MONT", Name: "Montgomery St.", Lat: 37.789, Lon: -122.401, LocationType: "0"}

	assert.Equal(t,
		"Stop(ID: MONT, Code: MONT, Name: Montgomery St., Desc: , Lat: 37.789, Lon: -122.401, Zone ID: , URL: , Location Type: 0, Parent Station: , Platform Code: )",
		stop.String())
}

func TestReadStopsFromZip(t *testing.T) {
	stops, err := ReadStopsFromZip(writeZip(t, completeFeed()), nil)
	require.NoError(t, err)
	assert.Len(t, stops, 2)
}

func TestReadStopsFromNestedZip(t *testing.T) {
	stops, err := ReadStopsFromZip(writeZip(t, map[string]string{"google_transit/stops.txt": bartStops}), nil)
	require.NoError(t, err)
	assert.Len(t, stops, 2)
}

func TestReadStopsFromZipWithoutStops(t *testing.T) {
	_, err := ReadStopsFromZip(writeZip(t, map[string]string{"agency.txt": "agency_id\nBART"}), nil)
	assert.ErrorIs(t, err, ErrNoStopsFile)
}

func TestMissingRequiredFiles(t *testing.T) {
	payload := buildZip(t, map[string]string{"stops.txt": bartStops})
	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	assert.Equal(t, []string{"agency.txt", "routes.txt", "trips.txt", "stop_times.txt"}, MissingRequiredFiles(reader))
}

func TestDownloadToTempFile(t *testing.T) {
	payload := buildZip(t, completeFeed())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	path, err := DownloadToTempFile(context.Background(), nil, server.URL)
	require.NoError(t, err)
	defer os.Remove(path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestDownloadToTempFileBadStatus(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := DownloadToTempFile(context.Background(), nil, server.URL)
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestMainPrintsStopsFromZip(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Main("gtfs-stops", []string{"-zip", writeZip(t, completeFeed())}, &out, &errOut)

	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Stop(ID: 12TH,"))
	assert.Contains(t, lines[1], "Name: Civic Center/UN Plaza, SF")
}

func TestMainPrintsStopsFromURL(t *testing.T) {
	payload := buildZip(t, completeFeed())
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	var out, errOut bytes.Buffer
	code := Main("gtfs-stops", []string{"-url", server.URL}, &out, &errOut)

	assert.Equal(t, 0, code)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestMainRequiresExactlyOneSource(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, -1, Main("gtfs-stops", nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Exactly one of -zip or -url")

	errOut.Reset()
	assert.Equal(t, -1, Main("gtfs-stops", []string{"-zip", "a.zip", "-url", "http://example.com/a.zip"}, &out, &errOut))
}

func TestParseArgsUsesConfigSource(t *testing.T) {
	zipPath := writeZip(t, completeFeed())
	configPath := filepath.Join(t.TempDir(), "stops.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("static_zip: "+zipPath+"\n"), 0o644))

	cfg, err := ParseArgs("gtfs-stops", []string{"-config", configPath}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, zipPath, cfg.ZipPath)
	assert.Empty(t, cfg.Url)
}

func TestDownloadToTempFileLogsThroughContextLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buildZip(t, completeFeed()))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	path, err := DownloadToTempFile(logging.WithLogger(context.Background(), logger), nil, server.URL)
	require.NoError(t, err)
	defer os.Remove(path)

	assert.Contains(t, buf.String(), `"msg":"downloaded static feed"`)
	assert.Contains(t, buf.String(), path)
}

func TestParseArgsExplicitLogLevelWinsOverConfig(t *testing.T) {
	zipPath := writeZip(t, completeFeed())
	configPath := filepath.Join(t.TempDir(), "stops.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level = \"debug\"\n"), 0o644))

	cfg, err := ParseArgs("gtfs-stops", []string{"-config", configPath, "-zip", zipPath, "-log-level", "info"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)

	cfg, err = ParseArgs("gtfs-stops", []string{"-config", configPath, "-zip", zipPath}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
