package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type JoinCommand struct {
	Bot Bot
}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Join your voice channel" }
func (c *JoinCommand) Aliases() []string   { return []string{} }
func (c *JoinCommand) Category() string    { return category }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *JoinCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	voiceState, err := c.Bot.FindUserVoiceState(req.guildID, req.userID)
	if err != nil {
		return req.reply("🎵 Join a voice channel first so I know where to go.")
	}
	if err := c.Bot.GetOrCreatePlayer(req.guildID).Connect(voiceState.ChannelID); err != nil {
		return req.reply(fmt.Sprintf("🎵 Could not join your voice channel: %v", err))
	}
	return req.reply("👋 Joined your voice channel.")
}
