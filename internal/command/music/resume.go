package music

import "github.com/bwmarrin/discordgo"

type ResumeCommand struct {
	Bot Bot
}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume a paused track" }
func (c *ResumeCommand) Aliases() []string   { return []string{} }
func (c *ResumeCommand) Category() string    { return category }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ResumeCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	if err := c.Bot.GetOrCreatePlayer(req.guildID).Resume(); err != nil {
		return req.reply("🎵 Nothing is paused.")
	}
	return req.reply("▶️ Resumed.")
}
