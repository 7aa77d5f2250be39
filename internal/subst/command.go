package subst

import "fmt"

// Kind tells the builder how a command is located.
type Kind int

const (
	// InTree commands are resolved to a path inside the build tree.
	InTree Kind = iota + 1
	// Ambient commands are left for PATH lookup at invocation time.
	Ambient
	// Literal values are substituted verbatim and take no arguments.
	Literal
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case InTree:
		return "in-tree"
	case Ambient:
		return "ambient"
	case Literal:
		return "literal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k == InTree || k == Ambient || k == Literal
}

// Command names what a substitution runs.
type Command struct {
	Kind Kind
	Name string
}

// InTreeTool returns a command for a tool produced by the toolchain build.
func InTreeTool(name string) Command {
	return Command{Kind: InTree, Name: name}
}

// AmbientTool returns a command resolved from PATH by the test runner.
func AmbientTool(name string) Command {
	return Command{Kind: Ambient, Name: name}
}

// LiteralValue returns a command that substitutes value as-is.
func LiteralValue(value string) Command {
	return Command{Kind: Literal, Name: value}
}

func (c Command) String() string {
	return c.Kind.String() + ":" + c.Name
}

// Resolver maps in-tree tool names to executable paths.
// toolpath.Resolver satisfies it.
type Resolver interface {
	Resolve(name string) string
}
