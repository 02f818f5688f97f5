package realtime

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatTrips = "trips"
)

var Formats = []string{FormatText, FormatJSON, FormatJSONL, FormatTrips}

type Printer struct {
	Format string
}

func NewPrinter(format string) (*Printer, error) {
	if format == "" {
		format = FormatText
	}
	for _, known := range Formats {
		if format == known {
			return &Printer{Format: format}, nil
		}
	}
	return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// Print writes one representation per entity, in feed order, and returns how
// many were written. Output already written stays written on error.
func (printer *Printer) Print(w io.Writer, feedMessage *gtfs.FeedMessage) (int, error) {
	if printer.Format == FormatTrips {
		return printTrips(w, feedMessage)
	}

	printed := 0
	for _, entity := range feedMessage.GetEntity() {
		rendered, err := printer.render(entity)
		if err != nil {
			return printed, fmt.Errorf("render entity %q: %w", entity.GetId(), err)
		}
		if _, err := w.Write(rendered); err != nil {
			return printed, err
		}
		printed++
	}
	return printed, nil
}

func (printer *Printer) render(entity *gtfs.FeedEntity) ([]byte, error) {
	switch printer.Format {
	case FormatJSON:
		rendered, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(entity)
		if err != nil {
			return nil, err
		}
		return append(rendered, '\n'), nil

	case FormatJSONL:
		rendered, err := protojson.Marshal(entity)
		if err != nil {
			return nil, err
		}
		return append(rendered, '\n'), nil

	default:
		rendered, err := prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(entity)
		if err != nil {
			return nil, err
		}
		// Each block is followed by a blank line.
		rendered = bytes.TrimRight(rendered, "\n")
		return append(rendered, '\n', '\n'), nil
	}
}

// printTrips writes one summary line per entity. Entities that carry no
// trip update still get a line so nothing is dropped.
func printTrips(w io.Writer, feedMessage *gtfs.FeedMessage) (int, error) {
	printed := 0
	for _, entity := range feedMessage.GetEntity() {
		if _, err := io.WriteString(w, summarize(entity)+"\n"); err != nil {
			return printed, err
		}
		printed++
	}
	return printed, nil
}

func summarize(entity *gtfs.FeedEntity) string {
	switch {
	case entity.GetTripUpdate() != nil:
		tripUpdate := entity.GetTripUpdate()
		return fmt.Sprintf("trip=%s route=%s stop_time_updates=%d",
			tripUpdate.GetTrip().GetTripId(),
			tripUpdate.GetTrip().GetRouteId(),
			len(tripUpdate.GetStopTimeUpdate()))

	case entity.GetVehicle() != nil:
		vehicle := entity.GetVehicle()
		return fmt.Sprintf("vehicle=%s trip=%s lat=%g lon=%g",
			vehicle.GetVehicle().GetId(),
			vehicle.GetTrip().GetTripId(),
			vehicle.GetPosition().GetLatitude(),
			vehicle.GetPosition().GetLongitude())

	case entity.GetAlert() != nil:
		alert := entity.GetAlert()
		return fmt.Sprintf("alert=%s effect=%s informed_entities=%d",
			entity.GetId(),
			alert.GetEffect(),
			len(alert.GetInformedEntity()))
	}

	return fmt.Sprintf("entity=%s deleted=%t", entity.GetId(), entity.GetIsDeleted())
}
