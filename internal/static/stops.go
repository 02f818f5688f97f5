package static

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Stop struct {
	ID            string
	Code          string
	Name          string
	Desc          string
	Lat           float64
	Lon           float64
	ZoneID        string
	URL           string
	LocationType  string
	ParentStation string
	PlatformCode  string
}

func (stop Stop) String() string {
	return fmt.Sprintf(
		"Stop(ID: %s, Code: %s, Name: %s, Desc: %s, Lat: %g, Lon: %g, Zone ID: %s, URL: %s, Location Type: %s, Parent Station: %s, Platform Code: %s)",
		stop.ID, stop.Code, stop.Name, stop.Desc, stop.Lat, stop.Lon,
		stop.ZoneID, stop.URL, stop.LocationType, stop.ParentStation, stop.PlatformCode,
	)
}

var ErrMissingStopID = errors.New("stops.txt has no stop_id column")

// ParseStops reads stops.txt. Columns are matched by header name, so optional
// columns may be absent or in any order.
func ParseStops(r io.Reader) ([]Stop, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read stops.txt header: %w", err)
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		index[strings.TrimSpace(header)] = i
	}
	if _, ok := index["stop_id"]; !ok {
		return nil, ErrMissingStopID
	}

	var stops []Stop
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		column := func(name string) string {
			if i, ok := index[name]; ok {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		stop := Stop{
			ID:            column("stop_id"),
			Code:          column("stop_code"),
			Name:          column("stop_name"),
			Desc:          column("stop_desc"),
			ZoneID:        column("zone_id"),
			URL:           column("stop_url"),
			LocationType:  column("location_type"),
			ParentStation: column("parent_station"),
			PlatformCode:  column("platform_code"),
		}

		if stop.Lat, err = parseCoordinate(column("stop_lat")); err != nil {
			return nil, fmt.Errorf("line %d: stop_lat: %w", line, err)
		}
		if stop.Lon, err = parseCoordinate(column("stop_lon")); err != nil {
			return nil, fmt.Errorf("line %d: stop_lon: %w", line, err)
		}

		stops = append(stops, stop)
	}

	return stops, nil
}

func parseCoordinate(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
