package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/version"
)

var categoryWeights = map[string]int{
	"🎵 Music":       0,
	"ℹ️ Information": 10,
}

type HelpCommand struct {
	// Prefix is shown in front of every text-command name.
	Prefix string
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List the available commands" }
func (c *HelpCommand) Aliases() []string   { return []string{} }
func (c *HelpCommand) Category() string    { return "ℹ️ Information" }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	embed := &discordgo.MessageEmbed{
		Title:       version.AppName + " commands",
		Description: c.buildListing(),
		Color:       EmbedColor,
	}

	switch v := ctx.(type) {
	case *SlashContext:
		return v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})
	case *MessageContext:
		_, err := v.Session.ChannelMessageSendEmbed(v.Event.ChannelID, embed)
		return err
	}
	return fmt.Errorf("unsupported context type %T", ctx)
}

func (c *HelpCommand) buildListing() string {
	byCategory := make(map[string][]Command)
	for _, cmd := range All() {
		byCategory[cmd.Category()] = append(byCategory[cmd.Category()], cmd)
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool {
		wi, wj := categoryWeights[categories[i]], categoryWeights[categories[j]]
		if wi != wj {
			return wi < wj
		}
		return categories[i] < categories[j]
	})

	var sb strings.Builder
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		for _, cmd := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("`%s%s`", c.Prefix, cmd.Name()))
			if aliases := cmd.Aliases(); len(aliases) > 0 {
				sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(aliases, ", ")))
			}
			sb.WriteString(fmt.Sprintf(" - %s\n", cmd.Description()))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Every command also works as a slash command.")
	return sb.String()
}
