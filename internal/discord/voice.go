package discord

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/stream"
	"github.com/felixmachan/dc-bot/pkg/util"
)

// joinWait bounds how long a voice join may block before giving up.
const joinWait = 10 * time.Second

var ErrJoinTimeout = errors.New("timed out joining voice channel")

// sessionVoice implements player.Voice over the discordgo session.
type sessionVoice struct {
	dg *discordgo.Session
}

func (v *sessionVoice) Join(guildID, channelID string) (player.Conn, error) {
	vc, err, ok := util.Bounded(func() (*discordgo.VoiceConnection, error) {
		return v.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	}, joinWait, func(vc *discordgo.VoiceConnection, _ error) {
		// the join came through after we gave up on it
		if vc != nil {
			_ = vc.Disconnect()
		}
	})
	if !ok {
		return nil, ErrJoinTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("join voice channel: %w", err)
	}
	return &voiceConn{vc: vc}, nil
}

// voiceConn implements player.Conn on one live voice connection.
type voiceConn struct {
	vc *discordgo.VoiceConnection
}

func (c *voiceConn) Play(src io.Reader, stop <-chan struct{}, paused func() bool) error {
	if err := c.vc.Speaking(true); err != nil {
		return fmt.Errorf("set speaking: %w", err)
	}
	defer func() { _ = c.vc.Speaking(false) }()
	return stream.EncodeToOpus(src, c.vc.OpusSend, stop, paused)
}

func (c *voiceConn) Disconnect() error {
	return c.vc.Disconnect()
}
