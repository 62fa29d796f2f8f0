package sources

import "errors"

// UnknownTitle is the display title for tracks whose metadata could not
// be determined (direct stream URLs, radio endpoints).
const UnknownTitle = "Unknown"

// MaxPlaylistItems bounds how many tracks one playlist or album link may
// add to a queue in a single command.
const MaxPlaylistItems = 50

// ErrNoResults means a lookup completed but matched nothing playable.
var ErrNoResults = errors.New("no results found")

// TrackInfo is a resolved, playable track.
type TrackInfo struct {
	// StreamRef is sufficient to open an audio source, typically the
	// direct media URL of the best audio encoding.
	StreamRef string
	Title     string
}
