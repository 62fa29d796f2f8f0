package music

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/music/queue"
	"github.com/felixmachan/dc-bot/internal/music/resolver"
	"github.com/felixmachan/dc-bot/internal/music/sources"
)

const (
	// maxSummaryTitles caps how many titles a batch enqueue lists.
	maxSummaryTitles = 5
	resolveTimeout   = 2 * time.Minute
)

type PlayCommand struct {
	Bot Bot
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Queue a link, playlist or search result" }
func (c *PlayCommand) Aliases() []string   { return []string{"p"} }
func (c *PlayCommand) Category() string    { return category }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "YouTube/Spotify link or search terms",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "query")
	if err != nil {
		return err
	}
	if req.input == "" {
		return req.reply("🎵 Tell me what to play: a YouTube or Spotify link, or search terms.")
	}

	voiceState, err := c.Bot.FindUserVoiceState(req.guildID, req.userID)
	if err != nil {
		return req.reply("🎵 Join a voice channel first.")
	}

	req.acknowledge(fmt.Sprintf("🔍 Searching: **%s**", req.input))

	rctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	result, err := c.Bot.Resolve(rctx, req.input)
	if err != nil {
		return req.reply(resolveErrorLine(err))
	}
	if len(result.Tracks) == 0 {
		// Every playlist entry failed to resolve.
		return req.reply(resolveErrorLine(sources.ErrNoResults))
	}

	p := c.Bot.GetOrCreatePlayer(req.guildID)
	if err := p.Connect(voiceState.ChannelID); err != nil {
		return req.reply(fmt.Sprintf("🎵 Could not join your voice channel: %v", err))
	}

	items := make([]queue.Item, len(result.Tracks))
	for i, t := range result.Tracks {
		items[i] = queue.Item{StreamRef: t.StreamRef, Title: t.Title, ReplyTo: req.channelID}
	}
	p.Enqueue(items...)

	return req.reply(enqueueSummary(result))
}

func resolveErrorLine(err error) string {
	switch {
	case errors.Is(err, resolver.ErrSpotifyNotConfigured):
		return "🎵 Spotify links are disabled; the bot owner has not set up Spotify credentials."
	case errors.Is(err, sources.ErrNoResults):
		return "🎵 Nothing found for that."
	default:
		return fmt.Sprintf("🎵 Could not resolve that: %v", err)
	}
}

// enqueueSummary renders the confirmation for what just got queued: the
// single title, or the first few of a batch plus a remainder count.
func enqueueSummary(result *resolver.Result) string {
	var sb strings.Builder
	if len(result.Tracks) == 1 {
		sb.WriteString(fmt.Sprintf("🎶 Queued: **%s**", result.Tracks[0].Title))
	} else {
		sb.WriteString(fmt.Sprintf("🎶 Queued **%d** tracks:\n", len(result.Tracks)))
		for i, t := range result.Tracks {
			if i == maxSummaryTitles {
				sb.WriteString(fmt.Sprintf("…and %d more\n", len(result.Tracks)-maxSummaryTitles))
				break
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, t.Title))
		}
	}
	if n := len(result.Failed); n > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ Skipped %d item(s) that could not be resolved.", n))
	}
	return strings.TrimRight(sb.String(), "\n")
}
