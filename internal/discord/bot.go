package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/felixmachan/dc-bot/internal/command"
	"github.com/felixmachan/dc-bot/internal/config"
	"github.com/felixmachan/dc-bot/internal/music/player"
	"github.com/felixmachan/dc-bot/internal/music/queue"
	"github.com/felixmachan/dc-bot/internal/music/resolver"
	"github.com/felixmachan/dc-bot/internal/music/sources/spotify"
	"github.com/felixmachan/dc-bot/internal/music/sources/youtube"
	"github.com/felixmachan/dc-bot/internal/version"
)

// Bot is the Discord runtime: one session, one command registry, one
// player per guild.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	resolver *resolver.Resolver
	queues   *queue.Manager

	mu      sync.Mutex
	players map[string]*player.Player
}

// StartBot runs the Discord bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config) error {
	b := &Bot{
		cfg:      cfg,
		resolver: buildResolver(ctx, cfg),
		queues:   queue.NewManager(),
		players:  make(map[string]*player.Player),
	}
	if err := b.run(ctx); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

// buildResolver wires the YouTube catalogue and, when credentials are
// present, the Spotify link expander.
func buildResolver(ctx context.Context, cfg *config.Config) *resolver.Resolver {
	var expander resolver.TermExpander
	if cfg.SpotifyEnabled() {
		sp, err := spotify.New(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
		if err != nil {
			log.Printf("[WARN] Spotify support disabled: %v", err)
		} else {
			log.Println("[INFO] Spotify link expansion enabled")
			expander = sp
		}
	} else {
		log.Println("[INFO] Spotify credentials not set, Spotify links disabled")
	}
	return resolver.New(youtube.New(), expander)
}

// run opens the Discord session and blocks until shutdown.
func (b *Bot) run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	b.registerCommands()
	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.shutdownPlayers()
	return nil
}

// configureIntents configures the Discord intents. Message content is
// needed for the prefixed text commands, voice states for channel lookups.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

// shutdownPlayers stops playback and leaves every voice channel.
func (b *Bot) shutdownPlayers() {
	b.mu.Lock()
	players := make([]*player.Player, 0, len(b.players))
	for _, p := range b.players {
		players = append(players, p)
	}
	b.mu.Unlock()

	for _, p := range players {
		_ = p.Stop()
		p.Close()
	}
}

// onReady is called when the gateway session is established.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	if err := s.UpdateListeningStatus(b.cfg.CommandPrefix + "play"); err != nil {
		log.Println("[WARN] Failed to set presence:", err)
	}

	if err := b.syncCommands(""); err != nil {
		log.Println("[ERR] Error syncing global slash commands:", err)
	}
	// The configured guild additionally gets the commands without the
	// global propagation delay.
	if b.cfg.GuildID != "" {
		if err := b.syncCommands(b.cfg.GuildID); err != nil {
			log.Println("[ERR] Error syncing guild slash commands:", err)
		}
	}

	log.Printf("[INFO] ✅ %s %s is running as %s.", version.AppName, version.Version, botInfo.Username)
}

// onGuildCreate is called for every guild the bot joins or resumes.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.cfg.GuildID == g.Guild.ID {
		if err := b.syncCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to sync commands for guild %s: %v", g.Guild.ID, err)
		}
	}
}

// onMessageCreate routes prefixed text messages to the command registry.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, b.cfg.CommandPrefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(content, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}

	name := strings.ToLower(fields[0])
	cmd, ok := command.Get(name)
	if !ok {
		return // not every prefixed message is ours
	}

	ctx := &command.MessageContext{Session: s, Event: m, Args: fields[1:]}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Error running command %s: %v", name, err)
		MessageEmbed(s, m.ChannelID, errorEmbed(err))
	}
}

// onInteractionCreate routes slash invocations to the command registry.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := command.Get(name)
	if !ok {
		log.Printf("[WARN] Unknown command: %s", name)
		return
	}

	ctx := &command.SlashContext{Session: s, Event: i}
	if err := cmd.Run(ctx); err != nil {
		log.Printf("[ERR] Error running slash command %s: %v", name, err)
		RespondEmbedEphemeral(s, i, errorEmbed(err))
	}
}
