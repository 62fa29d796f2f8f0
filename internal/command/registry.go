package command

import "sort"

var registry = map[string]Command{}

// Register adds a command under its name and every alias. Later
// registrations overwrite earlier ones, so wiring is idempotent.
func Register(cmd Command) {
	registry[cmd.Name()] = cmd
	for _, a := range cmd.Aliases() {
		registry[a] = cmd
	}
}

// Get looks a command up by name or alias.
func Get(name string) (Command, bool) {
	cmd, ok := registry[name]
	return cmd, ok
}

// All returns every registered command once, sorted by name. Aliases do
// not produce duplicates.
func All() []Command {
	seen := map[string]bool{}
	var list []Command
	for _, cmd := range registry {
		if seen[cmd.Name()] {
			continue
		}
		list = append(list, cmd)
		seen[cmd.Name()] = true
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}
