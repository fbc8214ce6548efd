package tui

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a verb typed on the command line.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Run         func(a *App, args []string) (tea.Cmd, error)
}

// CommandMatch is one completion candidate.
type CommandMatch struct {
	Name        string
	Usage       string
	Description string
}

// ErrUnknownCommand wraps lookups of verbs nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// maxSuggestDistance bounds how far a typo may be from a suggested verb.
const maxSuggestDistance = 3

type CommandRegistry struct {
	commands map[string]Command
	aliases  map[string]string
}

func NewCommandRegistry(cmds []Command) *CommandRegistry {
	reg := &CommandRegistry{commands: map[string]Command{}, aliases: map[string]string{}}
	for _, c := range cmds {
		reg.Register(c)
	}
	return reg
}

func (r *CommandRegistry) Register(c Command) {
	if c.Name == "" {
		return
	}
	r.commands[c.Name] = c
	for _, a := range c.Aliases {
		r.aliases[a] = c.Name
	}
}

// Lookup resolves a verb or alias.
func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := r.commands[name]; ok {
		return c, true
	}
	if full, ok := r.aliases[name]; ok {
		return r.commands[full], true
	}
	return Command{}, false
}

// Suggest returns the registered verb closest to name by edit distance, if
// any is close enough to be a plausible typo.
func (r *CommandRegistry) Suggest(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", maxSuggestDistance+1
	for _, candidate := range r.names() {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist || (d == bestDist && candidate < best) {
			best, bestDist = candidate, d
		}
	}
	if best == "" || bestDist > maxSuggestDistance || bestDist >= len(name) {
		return "", false
	}
	if full, ok := r.aliases[best]; ok {
		best = full
	}
	return best, true
}

// Search lists commands whose name starts with prefix, sorted by name.
func (r *CommandRegistry) Search(prefix string) []CommandMatch {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	out := make([]CommandMatch, 0, len(r.commands))
	for _, c := range r.commands {
		if !strings.HasPrefix(c.Name, prefix) {
			continue
		}
		out = append(out, CommandMatch{Name: c.Name, Usage: c.Usage, Description: c.Description})
	}
	slices.SortFunc(out, func(a, b CommandMatch) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Execute parses line and runs the named command.
func (r *CommandRegistry) Execute(line string, a *App) (tea.Cmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	c, ok := r.Lookup(fields[0])
	if !ok {
		if s, ok := r.Suggest(fields[0]); ok {
			return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownCommand, fields[0], s)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])
	}
	if c.Run == nil {
		return nil, nil
	}
	return c.Run(a, fields[1:])
}

func (r *CommandRegistry) names() []string {
	out := make([]string, 0, len(r.commands)+len(r.aliases))
	for name := range r.commands {
		out = append(out, name)
	}
	for alias := range r.aliases {
		out = append(out, alias)
	}
	slices.Sort(out)
	return out
}
