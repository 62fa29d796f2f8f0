package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixmachan/dc-bot/internal/command"
	"github.com/felixmachan/dc-bot/internal/config"
)

func sampleDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Queue a track",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "What to play",
				Required:    true,
			},
		},
	}
}

func TestHashCommandDeterministic(t *testing.T) {
	assert.Equal(t, hashCommand(sampleDefinition()), hashCommand(sampleDefinition()))
}

func TestHashCommandChangesWithDefinition(t *testing.T) {
	base := hashCommand(sampleDefinition())

	changed := sampleDefinition()
	changed.Description = "Queue a different track"
	assert.NotEqual(t, base, hashCommand(changed))

	changed = sampleDefinition()
	changed.Options[0].Required = false
	assert.NotEqual(t, base, hashCommand(changed))
}

func TestHashCommandIgnoresOptionOrder(t *testing.T) {
	a := sampleDefinition()
	a.Options = append(a.Options, &discordgo.ApplicationCommandOption{
		Type: discordgo.ApplicationCommandOptionString, Name: "source", Description: "Where from",
	})

	b := sampleDefinition()
	b.Options = []*discordgo.ApplicationCommandOption{a.Options[1], a.Options[0]}

	assert.Equal(t, hashCommand(a), hashCommand(b))
}

func TestScopeName(t *testing.T) {
	assert.Equal(t, "global", scopeName(""))
	assert.Equal(t, "1234", scopeName("1234"))
}

func TestCommandHashCacheRoundTrip(t *testing.T) {
	b := &Bot{cfg: &config.Config{CommandCacheDir: t.TempDir()}}

	assert.Empty(t, b.loadCommandHashes("guild-1"))

	want := map[string]string{"play": "abc", "skip": "def"}
	b.saveCommandHashes("guild-1", want)
	assert.Equal(t, want, b.loadCommandHashes("guild-1"))

	// global scope writes a separate file
	b.saveCommandHashes("", map[string]string{"play": "xyz"})
	assert.Equal(t, map[string]string{"play": "xyz"}, b.loadCommandHashes(""))
	assert.Equal(t, want, b.loadCommandHashes("guild-1"))
}

type defCmd struct{}

func (defCmd) Name() string              { return "fake" }
func (defCmd) Description() string       { return "fake command" }
func (defCmd) Aliases() []string         { return nil }
func (defCmd) Category() string          { return "ℹ️ Information" }
func (defCmd) Run(ctx interface{}) error { return nil }
func (defCmd) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: "fake", Description: "fake command"}
}

func TestCommandDefinitionThroughMiddleware(t *testing.T) {
	wrapped := command.Apply(defCmd{}, command.WithGuildOnly, command.WithCommandLogger)

	def := commandDefinition(wrapped)
	require.NotNil(t, def)
	assert.Equal(t, "fake", def.Name)
	assert.Equal(t, discordgo.ChatApplicationCommand, def.Type)
}

type plainCmd struct{ defCmd }

func (plainCmd) SlashDefinition() *discordgo.ApplicationCommand { return nil }

func TestCommandDefinitionNilDefinition(t *testing.T) {
	assert.Nil(t, commandDefinition(plainCmd{}))
}
