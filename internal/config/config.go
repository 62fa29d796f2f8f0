package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required,notEmpty"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	// Both must be set for Spotify link expansion; otherwise the
	// feature stays disabled and Spotify links are rejected politely.
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	// GuildID registers slash commands to one guild in addition to the
	// global registration, so command changes show up there immediately
	// instead of after Discord's global propagation delay.
	GuildID string `env:"DISCORD_GUILD_ID"`

	CommandCacheDir string `env:"COMMANDS_CACHE_DIR" envDefault:"data/commands"`
}

func New() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// SpotifyEnabled reports whether the Spotify catalogue integration is configured.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}
