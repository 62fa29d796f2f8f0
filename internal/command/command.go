package command

import (
	"github.com/bwmarrin/discordgo"
)

// EmbedColor is the accent used by every embed the bot sends.
const EmbedColor = 0x5865F2

// Command is one bot verb, reachable both as a slash command and as a
// prefixed text command. Run receives either *SlashContext or
// *MessageContext depending on how the user invoked it.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Category() string
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands that register a slash definition.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// SlashContext is the payload for an interaction invocation.
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
}

// MessageContext is the payload for a prefixed text invocation. Args holds
// the whitespace-split words after the command name.
type MessageContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Args    []string
}

// User returns the invoking user for either context shape. Interactions in
// guilds carry the user inside Member.
func User(ctx interface{}) *discordgo.User {
	switch v := ctx.(type) {
	case *SlashContext:
		if v.Event.Member != nil && v.Event.Member.User != nil {
			return v.Event.Member.User
		}
		if v.Event.User != nil {
			return v.Event.User
		}
	case *MessageContext:
		if v.Event.Author != nil {
			return v.Event.Author
		}
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}

// GuildID returns the guild the invocation came from, empty for DMs.
func GuildID(ctx interface{}) string {
	switch v := ctx.(type) {
	case *SlashContext:
		return v.Event.GuildID
	case *MessageContext:
		return v.Event.GuildID
	}
	return ""
}
