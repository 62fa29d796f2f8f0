package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/command"
	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/queue"
)

// maxQueueLines caps how many pending titles the listing shows.
const maxQueueLines = 10

type QueueCommand struct {
	Bot Bot
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the pending tracks" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }
func (c *QueueCommand) Category() string    { return category }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	p := c.Bot.GetOrCreatePlayer(req.guildID)
	title, playing := p.NowPlaying()
	items := p.Queue().Items()
	if !playing && len(items) == 0 {
		return req.reply("🎵 The queue is empty.")
	}
	return req.replyEmbed(&discordgo.MessageEmbed{
		Title:       "Queue",
		Description: formatQueue(title, p.State() == player.StatePaused, items),
		Color:       command.EmbedColor,
	})
}

// formatQueue renders the now-playing line and up to maxQueueLines pending
// titles, with a remainder count for the rest.
func formatQueue(nowPlaying string, paused bool, items []queue.Item) string {
	var sb strings.Builder
	if nowPlaying != "" {
		marker := "🎧"
		if paused {
			marker = "⏸️"
		}
		sb.WriteString(fmt.Sprintf("%s **%s**\n", marker, nowPlaying))
	}
	if len(items) > 0 {
		if nowPlaying != "" {
			sb.WriteString("\n")
		}
		sb.WriteString("**Up next**\n")
		for i, item := range items {
			if i == maxQueueLines {
				sb.WriteString(fmt.Sprintf("…and %d more\n", len(items)-maxQueueLines))
				break
			}
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Title))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
