package music

import "github.com/bwmarrin/discordgo"

type SkipCommand struct {
	Bot Bot
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current track" }
func (c *SkipCommand) Aliases() []string   { return []string{"next"} }
func (c *SkipCommand) Category() string    { return category }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	req, err := newRequest(ctx, "")
	if err != nil {
		return err
	}
	if err := c.Bot.GetOrCreatePlayer(req.guildID).Skip(); err != nil {
		return req.reply("🎵 Nothing is playing.")
	}
	return req.reply("⏭️ Skipped.")
}
