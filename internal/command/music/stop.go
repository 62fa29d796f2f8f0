package music

import "github.com/bwmarrin/discordgo"

type StopCommand struct {
	Bot Bot
}

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue" }
func (c *StopCommand) Aliases() []string   { return []string{} }
func (c *StopCommand) Category() string    { return category }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StopCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	if err := c.Bot.GetOrCreatePlayer(req.guildID).Stop(); err != nil {
		return req.reply("🎵 Nothing to stop.")
	}
	return req.reply("⏹️ Stopped and cleared the queue.")
}
