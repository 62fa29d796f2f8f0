package discord

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/felixmachan/dc-bot/internal/command"
)

// createLimiter paces command uploads well under Discord's rate limit.
var createLimiter = rate.NewLimiter(rate.Every(25*time.Millisecond), 1)

// syncCommands reconciles the slash commands Discord holds for a scope
// (a guild ID, or global when empty) with the local registry: obsolete
// ones are deleted, changed ones re-registered. A hash cache keeps
// restarts from re-uploading unchanged definitions.
func (b *Bot) syncCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}
	scope := scopeName(guildID)

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		log.Printf("[WARN] [%s] Failed to list remote commands: %v", scope, err)
	}

	local := buildCommandDefinitions()
	hashes := b.loadCommandHashes(guildID)

	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}
	for _, rc := range remote {
		if _, ok := localNames[rc.Name]; ok {
			continue
		}
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", scope, rc.Name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", scope, rc.Name, err)
		} else {
			delete(hashes, rc.Name)
		}
	}

	var changed []*discordgo.ApplicationCommand
	for _, d := range local {
		if hashes[d.Name] != hashCommand(d) {
			changed = append(changed, d)
		}
	}

	if len(changed) > 0 {
		log.Printf("[INFO] [%s] Registering %d changed command(s)...", scope, len(changed))
		for _, d := range changed {
			if err := createLimiter.Wait(context.Background()); err != nil {
				break
			}
			if _, err := b.dg.ApplicationCommandCreate(appID, guildID, d); err != nil {
				log.Printf("[ERR] [%s] Failed to register %s: %v", scope, d.Name, err)
			} else {
				log.Printf("[DONE] [%s] Registered: %s", scope, d.Name)
				hashes[d.Name] = hashCommand(d)
			}
		}
	}

	b.saveCommandHashes(guildID, hashes)
	return nil
}

func scopeName(guildID string) string {
	if guildID == "" {
		return "global"
	}
	return guildID
}

// buildCommandDefinitions returns the slash definitions for every
// registered command that provides one.
func buildCommandDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range command.All() {
		if def := commandDefinition(c); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

// commandDefinition extracts the slash definition, seen through any
// middleware wrappers, and defaults its type.
func commandDefinition(c command.Command) *discordgo.ApplicationCommand {
	slash, ok := c.(command.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// appID returns the bot's application ID, fetching it when the session
// state has not caught up yet.
func (b *Bot) appID() (string, error) {
	if id := b.dg.State.User.ID; id != "" {
		return id, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}

// --- Command hash cache ---

func (b *Bot) commandHashPath(guildID string) string {
	return filepath.Join(b.cfg.CommandCacheDir, scopeName(guildID)+".json")
}

func (b *Bot) loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(b.commandHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func (b *Bot) saveCommandHashes(guildID string, hashes map[string]string) {
	path := b.commandHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}

// --- Command hashing ---

// hashCommand returns a deterministic SHA-1 of a command's stable fields.
// Used to skip re-registration when nothing has changed.
func hashCommand(c *discordgo.ApplicationCommand) string {
	stable := map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	out := make([]map[string]interface{}, len(opts))
	for i, o := range opts {
		entry := map[string]interface{}{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]interface{}, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]interface{}{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
