package subst

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	// ErrEmptyToken is returned when registering an entry without a token.
	ErrEmptyToken = errors.New("substitution token is empty")
	// ErrInvalidCommand is returned for commands with an undeclared kind or no name.
	ErrInvalidCommand = errors.New("invalid substitution command")
)

// Entry is a registered, not yet resolved substitution.
type Entry struct {
	Token     string
	Command   Command
	ExtraArgs []string
}

// Builder accumulates substitution entries in registration order.
// It is not safe for concurrent use; setup is single-threaded.
type Builder struct {
	entries    []Entry
	index      map[string]int
	collisions []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Register adds a substitution for token.
//
// Registering a token that already exists overwrites the earlier entry in
// place: the last registration wins and keeps the first registration's slot.
// The overwrite is not an error but is recorded in Collisions.
func (b *Builder) Register(token string, cmd Command, extraArgs ...string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !cmd.Kind.Valid() || cmd.Name == "" {
		return fmt.Errorf("%w for %s: %s", ErrInvalidCommand, token, cmd)
	}
	if cmd.Kind == Literal && len(extraArgs) > 0 {
		return fmt.Errorf("%w for %s: literal values take no arguments", ErrInvalidCommand, token)
	}

	entry := Entry{Token: token, Command: cmd, ExtraArgs: slices.Clone(extraArgs)}

	if i, ok := b.index[token]; ok {
		slog.Debug("substitution overwritten", "token", token, "previous", b.entries[i].Command.String(), "command", cmd.String())
		b.entries[i] = entry
		if !slices.Contains(b.collisions, token) {
			b.collisions = append(b.collisions, token)
		}
		return nil
	}

	b.index[token] = len(b.entries)
	b.entries = append(b.entries, entry)
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (b *Builder) MustRegister(token string, cmd Command, extraArgs ...string) {
	if err := b.Register(token, cmd, extraArgs...); err != nil {
		panic(err)
	}
}

// Len returns the number of distinct tokens registered so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Collisions returns the tokens that were registered more than once.
func (b *Builder) Collisions() []string {
	return slices.Clone(b.collisions)
}

// Build resolves every entry and freezes the result into a Table.
func (b *Builder) Build(r Resolver) *Table {
	resolved := make([]ResolvedEntry, len(b.entries))
	for i, e := range b.entries {
		resolved[i] = ResolvedEntry{
			Token:     e.Token,
			Command:   e.Command,
			Path:      resolve(r, e.Command),
			ExtraArgs: slices.Clone(e.ExtraArgs),
		}
	}
	return newTable(resolved, slices.Clone(b.collisions))
}

func resolve(r Resolver, cmd Command) string {
	switch cmd.Kind {
	case InTree:
		return r.Resolve(cmd.Name)
	case Ambient, Literal:
		return cmd.Name
	default:
		panic(fmt.Sprintf("subst: unresolvable command %s", cmd))
	}
}
