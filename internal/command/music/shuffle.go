package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type ShuffleCommand struct {
	Bot Bot
}

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Shuffle the pending tracks" }
func (c *ShuffleCommand) Aliases() []string   { return []string{} }
func (c *ShuffleCommand) Category() string    { return category }

func (c *ShuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ShuffleCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	q := c.Bot.GetOrCreatePlayer(req.guildID).Queue()
	if q.Len() < 2 {
		return req.reply("🎵 Not enough queued tracks to shuffle.")
	}
	q.Shuffle()
	return req.reply(fmt.Sprintf("🔀 Shuffled %d tracks.", q.Len()))
}
