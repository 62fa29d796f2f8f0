package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/felixmachan/dc-bot/internal/command"
	"github.com/felixmachan/dc-bot/internal/command/music"
	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/resolver"
	"github.com/felixmachan/dc-bot/internal/music/stream"
)

// registerCommands fills the command registry with every verb wired to
// this bot instance.
func (b *Bot) registerCommands() {
	for _, c := range []command.Command{
		&music.PlayCommand{Bot: b},
		&music.SkipCommand{Bot: b},
		&music.PauseCommand{Bot: b},
		&music.ResumeCommand{Bot: b},
		&music.NowPlayingCommand{Bot: b},
		&music.QueueCommand{Bot: b},
		&music.ShuffleCommand{Bot: b},
		&music.StopCommand{Bot: b},
		&music.JoinCommand{Bot: b},
		&music.LeaveCommand{Bot: b},
	} {
		command.Register(command.Apply(c, command.WithGuildOnly, command.WithCommandLogger))
	}
	command.Register(command.Apply(&command.HelpCommand{Prefix: b.cfg.CommandPrefix}, command.WithCommandLogger))
}

// GetOrCreatePlayer returns the guild's player, creating it on first use.
func (b *Bot) GetOrCreatePlayer(guildID string) *player.Player {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.players[guildID]; ok {
		return p
	}

	p := player.New(guildID, b.queues.Get(guildID), &sessionVoice{dg: b.dg}, stream.Open, b.notifyChannel)
	b.players[guildID] = p
	return p
}

// FindUserVoiceState finds the voice channel a user currently occupies.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*music.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &music.VoiceState{ChannelID: vs.ChannelID, UserID: vs.UserID}, nil
		}
	}
	return nil, fmt.Errorf("user not in any voice channel")
}

// Resolve turns user input into playable tracks.
func (b *Bot) Resolve(ctx context.Context, input string) (*resolver.Result, error) {
	return b.resolver.Resolve(ctx, input)
}

// notifyChannel delivers player status lines to a text channel.
func (b *Bot) notifyChannel(channelID, message string) {
	if channelID == "" {
		return
	}
	if _, err := b.dg.ChannelMessageSend(channelID, message); err != nil {
		log.Printf("[WARN] Failed to send status message: %v", err)
	}
}
