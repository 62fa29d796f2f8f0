package music

import "github.com/bwmarrin/discordgo"

type LeaveCommand struct {
	Bot Bot
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Leave the voice channel and clear the queue" }
func (c *LeaveCommand) Aliases() []string   { return []string{} }
func (c *LeaveCommand) Category() string    { return category }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	if err := c.Bot.GetOrCreatePlayer(req.guildID).Stop(); err != nil {
		return req.reply("🎵 I'm not in a voice channel.")
	}
	return req.reply("👋 Left the voice channel.")
}
