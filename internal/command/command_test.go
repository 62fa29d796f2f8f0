package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordCmd struct {
	name    string
	aliases []string
	ran     int
}

func (c *recordCmd) Name() string        { return c.name }
func (c *recordCmd) Description() string { return "test command" }
func (c *recordCmd) Aliases() []string   { return c.aliases }
func (c *recordCmd) Category() string    { return "ℹ️ Information" }
func (c *recordCmd) Run(ctx interface{}) error {
	c.ran++
	return nil
}

func (c *recordCmd) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.name, Description: "test command"}
}

func resetRegistry(t *testing.T) {
	t.Helper()
	registry = map[string]Command{}
}

func guildMessageContext(guildID string) *MessageContext {
	return &MessageContext{
		Event: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID: guildID,
			Author:  &discordgo.User{ID: "user-1", Username: "tester"},
		}},
	}
}

func TestRegisterAndLookupByAlias(t *testing.T) {
	resetRegistry(t)
	cmd := &recordCmd{name: "play", aliases: []string{"p"}}
	Register(cmd)

	byName, ok := Get("play")
	require.True(t, ok)
	byAlias, ok := Get("p")
	require.True(t, ok)
	assert.Same(t, Command(cmd), byName)
	assert.Same(t, Command(cmd), byAlias)

	_, ok = Get("nope")
	assert.False(t, ok)
}

func TestAllDeduplicatesAndSorts(t *testing.T) {
	resetRegistry(t)
	Register(&recordCmd{name: "skip", aliases: []string{"next"}})
	Register(&recordCmd{name: "play", aliases: []string{"p"}})

	all := All()
	require.Len(t, all, 2)
	assert.Equal(t, "play", all[0].Name())
	assert.Equal(t, "skip", all[1].Name())
}

func TestMiddlewareStillRunsInner(t *testing.T) {
	inner := &recordCmd{name: "play"}
	wrapped := Apply(inner, WithGuildOnly, WithCommandLogger)

	require.NoError(t, wrapped.Run(guildMessageContext("guild-1")))
	assert.Equal(t, 1, inner.ran)
}

func TestWrappedCommandExposesSlashDefinition(t *testing.T) {
	wrapped := Apply(&recordCmd{name: "play"}, WithGuildOnly, WithCommandLogger)

	provider, ok := wrapped.(SlashProvider)
	require.True(t, ok)
	def := provider.SlashDefinition()
	require.NotNil(t, def)
	assert.Equal(t, "play", def.Name)
}

func TestUserFromContexts(t *testing.T) {
	slash := &SlashContext{Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID: "guild-1",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "user-2", Username: "member"}},
	}}}
	assert.Equal(t, "user-2", User(slash).ID)
	assert.Equal(t, "guild-1", GuildID(slash))

	msg := guildMessageContext("guild-9")
	assert.Equal(t, "user-1", User(msg).ID)
	assert.Equal(t, "guild-9", GuildID(msg))

	assert.Equal(t, "unknown", User(struct{}{}).ID)
	assert.Equal(t, "", GuildID(struct{}{}))
}
