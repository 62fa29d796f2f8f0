package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/music/player"
)

type PauseCommand struct {
	Bot Bot
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Category() string    { return category }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PauseCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	switch err := c.Bot.GetOrCreatePlayer(req.guildID).Pause(); {
	case err == nil:
		return req.reply("⏸️ Paused.")
	case errors.Is(err, player.ErrAlreadyPaused):
		return req.reply("⏸️ Already paused.")
	default:
		return req.reply("🎵 Nothing is playing.")
	}
}
