package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sp "github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"
)

// Expander turns Spotify track/album/playlist links into "track artist"
// search terms via the Web API client-credentials flow. Spotify streams
// nothing itself; the terms are resolved through YouTube afterwards.
type Expander struct {
	client sp.Client
}

// New validates the credentials up front so a typo disables the feature at
// startup instead of failing the first play command.
func New(ctx context.Context, clientID, clientSecret string) (*Expander, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     sp.TokenURL,
	}
	if _, err := cfg.Token(ctx); err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}
	return &Expander{client: sp.NewClient(cfg.Client(ctx))}, nil
}

// IsLink reports whether input is a Spotify link or URI. Needs no
// credentials, so unconfigured setups can still classify and reject.
func IsLink(input string) bool {
	if strings.HasPrefix(input, "spotify:") {
		return true
	}
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "spotify.com" || strings.HasSuffix(host, ".spotify.com")
}

// Expand lists search terms for the link's tracks, at most limit entries.
// The context parameter is accepted for call-site symmetry; the v1 Spotify
// client has no context-aware calls.
func (e *Expander) Expand(ctx context.Context, link string, limit int) ([]string, error) {
	kind, id, err := parseLink(link)
	if err != nil {
		return nil, err
	}

	var terms []string
	switch kind {
	case "track":
		track, err := e.client.GetTrack(sp.ID(id))
		if err != nil {
			return nil, fmt.Errorf("get track: %w", err)
		}
		terms = append(terms, searchTerm(track.Name, track.Artists))
	case "album":
		album, err := e.client.GetAlbum(sp.ID(id))
		if err != nil {
			return nil, fmt.Errorf("get album: %w", err)
		}
		for _, track := range album.Tracks.Tracks {
			terms = append(terms, searchTerm(track.Name, track.Artists))
		}
	case "playlist":
		playlist, err := e.client.GetPlaylist(sp.ID(id))
		if err != nil {
			return nil, fmt.Errorf("get playlist: %w", err)
		}
		for _, entry := range playlist.Tracks.Tracks {
			terms = append(terms, searchTerm(entry.Track.Name, entry.Track.Artists))
		}
	default:
		return nil, fmt.Errorf("unsupported spotify link type %q", kind)
	}

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

// parseLink extracts the resource kind and ID from an open.spotify.com URL
// or a spotify:kind:id URI. Locale (/intl-xx/) and /embed/ path prefixes
// are tolerated.
func parseLink(input string) (kind, id string, err error) {
	if strings.HasPrefix(input, "spotify:") {
		parts := strings.Split(input, ":")
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return "", "", fmt.Errorf("malformed spotify URI: %s", input)
		}
		return parts[1], parts[2], nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", "", fmt.Errorf("parse spotify link: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) > 2 {
		segments = segments[len(segments)-2:]
	}
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("unrecognized spotify link: %s", input)
	}
	return segments[0], segments[1], nil
}

func searchTerm(name string, artists []sp.SimpleArtist) string {
	if len(artists) == 0 || artists[0].Name == "" {
		return name
	}
	return name + " " + artists[0].Name
}
