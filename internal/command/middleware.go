package command

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

// WrappedCommand decorates Run while keeping the inner command's slash
// definition visible to the registration pass.
type WrappedCommand struct {
	Command
	Wrap func(ctx interface{}) error
}

func (w *WrappedCommand) Run(ctx interface{}) error {
	if w.Wrap != nil {
		return w.Wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *WrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func Apply(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly rejects invocations from outside a guild.
func WithGuildOnly(cmd Command) Command {
	return &WrappedCommand{
		Command: cmd,
		Wrap: func(ctx interface{}) error {
			if GuildID(ctx) != "" {
				return cmd.Run(ctx)
			}
			switch v := ctx.(type) {
			case *SlashContext:
				_ = v.Session.InteractionRespond(v.Event.Interaction, &discordgo.InteractionResponse{
					Type: discordgo.InteractionResponseChannelMessageWithSource,
					Data: &discordgo.InteractionResponseData{
						Content: "This command only works in a server.",
						Flags:   discordgo.MessageFlagsEphemeral,
					},
				})
			case *MessageContext:
				_, _ = v.Session.ChannelMessageSend(v.Event.ChannelID, "This command only works in a server.")
			}
			return nil
		},
	}
}

// WithCommandLogger logs every invocation with its origin.
func WithCommandLogger(cmd Command) Command {
	return &WrappedCommand{
		Command: cmd,
		Wrap: func(ctx interface{}) error {
			user := User(ctx)
			log.Printf("[Command] %s invoked | guild=%s user=%s", cmd.Name(), GuildID(ctx), user.Username)
			return cmd.Run(ctx)
		},
	}
}
