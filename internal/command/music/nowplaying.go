package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/music/player"
)

type NowPlayingCommand struct {
	Bot Bot
}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the current track" }
func (c *NowPlayingCommand) Aliases() []string   { return []string{"np"} }
func (c *NowPlayingCommand) Category() string    { return category }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *NowPlayingCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	p := c.Bot.GetOrCreatePlayer(req.guildID)
	title, ok := p.NowPlaying()
	if !ok {
		return req.reply("🎵 Nothing is playing.")
	}
	line := fmt.Sprintf("🎧 Now playing: **%s**", title)
	if p.State() == player.StatePaused {
		line += " (paused)"
	}
	return req.reply(line)
}
