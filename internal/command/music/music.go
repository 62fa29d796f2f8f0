// Package music holds the playback commands. Every verb is reachable both
// as a slash command and as a prefixed text command; Run normalizes the two
// surfaces and drives the guild player the same way for both.
package music

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/command"
	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/resolver"
)

const category = "🎵 Music"

// VoiceState holds the voice channel a user currently occupies.
type VoiceState struct {
	ChannelID string
	UserID    string
}

// Bot is the surface the music commands need from the running bot.
type Bot interface {
	GetOrCreatePlayer(guildID string) *player.Player
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
	Resolve(ctx context.Context, input string) (*resolver.Result, error)
}

// request normalizes the two invocation surfaces a verb can arrive on.
type request struct {
	session   *discordgo.Session
	guildID   string
	channelID string
	userID    string
	input     string

	inter    *discordgo.InteractionCreate // nil for text invocations
	deferred bool
}

// newRequest extracts the shared fields from either context shape. option
// names the slash option carrying free text; text invocations join their
// remaining words instead.
func newRequest(ctx interface{}, option string) (*request, error) {
	switch v := ctx.(type) {
	case *command.SlashContext:
		r := &request{
			session:   v.Session,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			userID:    command.User(ctx).ID,
			inter:     v.Event,
		}
		if option != "" {
			for _, opt := range v.Event.ApplicationCommandData().Options {
				if opt.Name == option {
					r.input = opt.StringValue()
				}
			}
		}
		return r, nil
	case *command.MessageContext:
		return &request{
			session:   v.Session,
			guildID:   v.Event.GuildID,
			channelID: v.Event.ChannelID,
			userID:    command.User(ctx).ID,
			input:     strings.TrimSpace(strings.Join(v.Args, " ")),
		}, nil
	}
	return nil, fmt.Errorf("unsupported context type %T", ctx)
}

// acknowledge signals that a slow operation started. Slash invocations are
// deferred, text invocations get a progress line.
func (r *request) acknowledge(progress string) {
	if r.inter != nil {
		if err := r.session.InteractionRespond(r.inter.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		}); err == nil {
			r.deferred = true
		}
		return
	}
	if progress != "" {
		_, _ = r.session.ChannelMessageSend(r.channelID, progress)
	}
}

// reply delivers the final line for the invocation.
func (r *request) reply(content string) error {
	if r.inter != nil {
		if r.deferred {
			_, err := r.session.FollowupMessageCreate(r.inter.Interaction, true, &discordgo.WebhookParams{
				Content: content,
			})
			return err
		}
		return r.session.InteractionRespond(r.inter.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content},
		})
	}
	_, err := r.session.ChannelMessageSend(r.channelID, content)
	return err
}

// replyEmbed delivers an embed instead of a plain line.
func (r *request) replyEmbed(embed *discordgo.MessageEmbed) error {
	if r.inter != nil {
		if r.deferred {
			_, err := r.session.FollowupMessageCreate(r.inter.Interaction, true, &discordgo.WebhookParams{
				Embeds: []*discordgo.MessageEmbed{embed},
			})
			return err
		}
		return r.session.InteractionRespond(r.inter.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
		})
	}
	_, err := r.session.ChannelMessageSendEmbed(r.channelID, embed)
	return err
}
