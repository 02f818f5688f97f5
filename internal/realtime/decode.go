package realtime

import (
	"errors"
	"fmt"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

var ErrDecode = errors.New("payload is not a valid GTFS-Realtime FeedMessage")

// Decode parses a binary FeedMessage. Required proto2 fields (header,
// gtfs_realtime_version, entity ids) are enforced by the runtime.
func Decode(body []byte) (*gtfs.FeedMessage, error) {
	feedMessage := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feedMessage); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return feedMessage, nil
}
