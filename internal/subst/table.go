package subst

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ResolvedEntry is a substitution whose command has been located.
type ResolvedEntry struct {
	Token     string   `json:"token"`
	Command   Command  `json:"-"`
	Path      string   `json:"command"`
	ExtraArgs []string `json:"extra_args,omitempty"`
}

// CommandLine renders the text that replaces the token in a test script.
// Arguments are shell-quoted; literal values are returned unchanged.
func (e ResolvedEntry) CommandLine() string {
	if e.Command.Kind == Literal {
		return e.Path
	}
	words := make([]string, 0, len(e.ExtraArgs)+1)
	words = append(words, e.Path)
	words = append(words, e.ExtraArgs...)
	return shellquote.Join(words...)
}

// Table is the frozen substitution set. It is safe for concurrent readers.
type Table struct {
	entries    []ResolvedEntry
	byToken    map[string]int
	byLength   []int // entry indices, longest token first
	collisions []string
}

func newTable(entries []ResolvedEntry, collisions []string) *Table {
	t := &Table{
		entries:    entries,
		byToken:    make(map[string]int, len(entries)),
		byLength:   make([]int, len(entries)),
		collisions: collisions,
	}
	for i, e := range entries {
		t.byToken[e.Token] = i
		t.byLength[i] = i
	}
	slices.SortStableFunc(t.byLength, func(a, b int) int {
		return len(entries[b].Token) - len(entries[a].Token)
	})
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in registration order.
func (t *Table) Entries() []ResolvedEntry {
	out := make([]ResolvedEntry, len(t.entries))
	for i, e := range t.entries {
		e.ExtraArgs = slices.Clone(e.ExtraArgs)
		out[i] = e
	}
	return out
}

// Lookup returns the entry registered for token.
func (t *Table) Lookup(token string) (ResolvedEntry, bool) {
	i, ok := t.byToken[token]
	if !ok {
		return ResolvedEntry{}, false
	}
	e := t.entries[i]
	e.ExtraArgs = slices.Clone(e.ExtraArgs)
	return e, true
}

// Collisions returns the tokens that were overwritten while building.
func (t *Table) Collisions() []string {
	return slices.Clone(t.collisions)
}

// Apply replaces every token occurrence in text with its command line.
func (t *Table) Apply(text string) string {
	if len(t.entries) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if e, ok := t.matchAt(text, i); ok {
			b.WriteString(e.CommandLine())
			i += len(e.Token)
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

// matchAt returns the longest entry whose token starts at text[i] and is not
// glued to surrounding token characters.
func (t *Table) matchAt(text string, i int) (ResolvedEntry, bool) {
	for _, idx := range t.byLength {
		e := t.entries[idx]
		tok := e.Token
		if !strings.HasPrefix(text[i:], tok) {
			continue
		}
		if isTokenByte(tok[0]) && i > 0 && isTokenByte(text[i-1]) {
			continue
		}
		end := i + len(tok)
		if isTokenByte(tok[len(tok)-1]) && end < len(text) && isTokenByte(text[end]) {
			continue
		}
		return e, true
	}
	return ResolvedEntry{}, false
}

func isTokenByte(c byte) bool {
	return c == '_' || c == '-' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

// Write prints one "token<TAB>command line" row per entry in registration order.
func (t *Table) Write(w io.Writer) error {
	for _, e := range t.entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Token, e.CommandLine()); err != nil {
			return err
		}
	}
	return nil
}
