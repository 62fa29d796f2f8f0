package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	yt "github.com/kkdai/youtube/v2"
	"github.com/ppalone/ytsearch"

	"github.com/felixmachan/dc-bot/internal/music/sources"
	"github.com/felixmachan/dc-bot/pkg/util"
)

var youtubeRegex = regexp.MustCompile(`(?:https?:\/\/)?(?:www\.|music\.)?(youtube\.com|youtu\.be)\/\S+`)

var ErrNoAudioFormats = errors.New("no audio formats found for video")

const playlistWorkers = 4

// Source resolves YouTube links and search terms into playable tracks.
type Source struct {
	client *yt.Client
	search *ytsearch.Client
}

func New() *Source {
	return &Source{
		client: &yt.Client{},
		search: ytsearch.NewClient(nil),
	}
}

// Match reports whether input is a YouTube URL.
func (s *Source) Match(input string) bool {
	return youtubeRegex.MatchString(input)
}

// Resolve turns a YouTube video or playlist URL into playable tracks.
// Playlists are capped at sources.MaxPlaylistItems; entries that fail to
// extract are skipped, their names reported in failed.
func (s *Source) Resolve(ctx context.Context, input string) (tracks []sources.TrackInfo, failed []string, err error) {
	if isPlaylistURL(input) {
		return s.resolvePlaylist(ctx, input)
	}

	track, err := s.resolveVideo(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	return []sources.TrackInfo{track}, nil, nil
}

// Search resolves a free-text term to the first matching video's best audio stream.
func (s *Source) Search(ctx context.Context, term string) (sources.TrackInfo, error) {
	res, err := s.search.Search(ctx, term)
	if err != nil {
		return sources.TrackInfo{}, fmt.Errorf("youtube search: %w", err)
	}
	if len(res.Results) == 0 {
		return sources.TrackInfo{}, sources.ErrNoResults
	}
	return s.resolveVideo(ctx, res.Results[0].VideoID)
}

// resolveVideo extracts the best audio stream URL for a video URL or ID.
func (s *Source) resolveVideo(ctx context.Context, urlOrID string) (sources.TrackInfo, error) {
	video, err := s.client.GetVideoContext(ctx, urlOrID)
	if err != nil {
		return sources.TrackInfo{}, fmt.Errorf("get video: %w", err)
	}
	return s.trackFromVideo(ctx, video)
}

func (s *Source) resolvePlaylist(ctx context.Context, url string) ([]sources.TrackInfo, []string, error) {
	playlist, err := s.client.GetPlaylistContext(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("get playlist: %w", err)
	}

	entries := playlist.Videos
	if len(entries) > sources.MaxPlaylistItems {
		entries = entries[:sources.MaxPlaylistItems]
	}
	if len(entries) == 0 {
		return nil, nil, sources.ErrNoResults
	}

	results := util.Parallel(ctx, entries, playlistWorkers, func(ctx context.Context, entry *yt.PlaylistEntry) (sources.TrackInfo, error) {
		video, err := s.client.VideoFromPlaylistEntryContext(ctx, entry)
		if err != nil {
			return sources.TrackInfo{}, err
		}
		return s.trackFromVideo(ctx, video)
	})

	tracks, failed := collectPlaylistResults(entries, results)
	return tracks, failed, nil
}

// collectPlaylistResults splits the per-entry extraction outcomes into
// playable tracks and the names of entries that could not be extracted.
func collectPlaylistResults(entries []*yt.PlaylistEntry, results []util.Result[sources.TrackInfo]) (tracks []sources.TrackInfo, failed []string) {
	for i, r := range results {
		if r.Err != nil {
			name := entries[i].Title
			if name == "" {
				name = entries[i].ID
			}
			log.Printf("[WARN] Skipping playlist entry %q: %v", name, r.Err)
			failed = append(failed, name)
			continue
		}
		tracks = append(tracks, r.Value)
	}
	return tracks, failed
}

func (s *Source) trackFromVideo(ctx context.Context, video *yt.Video) (sources.TrackInfo, error) {
	format, err := bestAudioFormat(video)
	if err != nil {
		return sources.TrackInfo{}, err
	}

	link, err := s.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return sources.TrackInfo{}, fmt.Errorf("get stream URL: %w", err)
	}

	title := video.Title
	if title == "" {
		title = sources.UnknownTitle
	}
	return sources.TrackInfo{StreamRef: link, Title: title}, nil
}

// bestAudioFormat picks the richest audio-capable encoding: highest bitrate
// first, then highest sample rate, then whichever comes first.
func bestAudioFormat(video *yt.Video) (*yt.Format, error) {
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, ErrNoAudioFormats
	}

	sort.SliceStable(formats, func(i, j int) bool {
		if formats[i].Bitrate != formats[j].Bitrate {
			return formats[i].Bitrate > formats[j].Bitrate
		}
		return audioSampleRate(&formats[i]) > audioSampleRate(&formats[j])
	})
	return &formats[0], nil
}

func audioSampleRate(f *yt.Format) int {
	rate, err := strconv.Atoi(f.AudioSampleRate)
	if err != nil {
		return 0
	}
	return rate
}

func isPlaylistURL(input string) bool {
	return strings.Contains(input, "/playlist") || strings.Contains(input, "list=")
}
