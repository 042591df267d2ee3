package seqmatch

import (
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// logger is the package-wide structured logger. It only ever logs at
// debug (guard short-circuits) and warn (TooSlow aborts) level; neither
// affects matcher semantics, only observability, matching the teacher's
// own posture that logging never participates in control flow.
var logger = zerolog.New(os.Stderr).With().Timestamp().Str("pkg", "seqmatch").Logger()

// withGroupID attaches the state's correlation ID to an in-flight log
// event, if one was set by the caller.
func withGroupID(ev *zerolog.Event, groupID uuid.UUID) *zerolog.Event {
	if groupID == uuid.Nil {
		return ev
	}
	return ev.Str("group_id", groupID.String())
}
