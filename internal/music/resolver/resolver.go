package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/felixmachan/dc-bot/internal/music/sources"
	"github.com/felixmachan/dc-bot/internal/music/sources/spotify"
	"github.com/felixmachan/dc-bot/pkg/util"
)

var (
	ErrEmptyQuery           = errors.New("empty query")
	ErrSpotifyNotConfigured = errors.New("spotify links require catalogue credentials")
)

const termWorkers = 4

// Catalogue finds and extracts playable tracks (YouTube in production).
// Resolve names the entries of a multi-track link it had to skip in
// failed.
type Catalogue interface {
	Match(input string) bool
	Resolve(ctx context.Context, input string) (tracks []sources.TrackInfo, failed []string, err error)
	Search(ctx context.Context, term string) (sources.TrackInfo, error)
}

// TermExpander turns an external catalogue link into search terms.
type TermExpander interface {
	Expand(ctx context.Context, link string, limit int) ([]string, error)
}

// Result is the outcome of resolving one user input.
type Result struct {
	Tracks []sources.TrackInfo
	// Failed lists expansion terms and playlist entries no track could
	// be extracted for.
	Failed []string
}

// Resolver hides the distinction between direct links, search terms and
// third-party playlist links behind one lookup.
type Resolver struct {
	catalogue Catalogue
	expander  TermExpander // nil when the integration is unconfigured
}

func New(catalogue Catalogue, expander TermExpander) *Resolver {
	return &Resolver{catalogue: catalogue, expander: expander}
}

// IsLink classifies input without network I/O.
func IsLink(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		spotify.IsLink(input)
}

func (r *Resolver) Resolve(ctx context.Context, input string) (*Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyQuery
	}

	switch {
	case spotify.IsLink(input):
		if r.expander == nil {
			return nil, ErrSpotifyNotConfigured
		}
		terms, err := r.expander.Expand(ctx, input, sources.MaxPlaylistItems)
		if err != nil {
			return nil, fmt.Errorf("expand catalogue link: %w", err)
		}
		if len(terms) == 0 {
			return nil, sources.ErrNoResults
		}
		return r.resolveTerms(ctx, terms), nil

	case r.catalogue.Match(input):
		tracks, failed, err := r.catalogue.Resolve(ctx, input)
		if err != nil {
			return nil, err
		}
		return &Result{Tracks: tracks, Failed: failed}, nil

	case IsLink(input):
		// Direct media URL (radio stream, plain file); ffmpeg sorts it out.
		return &Result{Tracks: []sources.TrackInfo{{StreamRef: input, Title: sources.UnknownTitle}}}, nil

	default:
		track, err := r.catalogue.Search(ctx, input)
		if err != nil {
			return nil, err
		}
		return &Result{Tracks: []sources.TrackInfo{track}}, nil
	}
}

// resolveTerms looks up every term independently and keeps track order;
// failed terms are collected instead of aborting the batch.
func (r *Resolver) resolveTerms(ctx context.Context, terms []string) *Result {
	results := util.Parallel(ctx, terms, termWorkers, func(ctx context.Context, term string) (sources.TrackInfo, error) {
		return r.catalogue.Search(ctx, term)
	})

	res := &Result{}
	for i, item := range results {
		if item.Err != nil {
			log.Printf("[WARN] No track for term %q: %v", terms[i], item.Err)
			res.Failed = append(res.Failed, terms[i])
			continue
		}
		res.Tracks = append(res.Tracks, item.Value)
	}
	return res
}
