package bconnect

import (
	"github.com/samber/lo"
)

// Kind tells normal pipeline steps apart from steps that handle errors.
type Kind int

const (
	// KindNormal entries run only while no error is pending.
	KindNormal Kind = iota + 1
	// KindError entries run whenever their path matches and receive the pending error, if any.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "Normal"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Entry is one registered pipeline step. Exactly one of Handler or ErrorHandler is set, depending
// on the Kind.
type Entry struct {
	Kind         Kind
	Path         string
	Handler      Handler
	ErrorHandler ErrorHandler
}

// NormalEntry creates a Normal-kind entry. An empty path means [RootPath].
func NormalEntry(path string, h Handler) Entry {
	return Entry{Kind: KindNormal, Path: scopeOrRoot(path), Handler: h}
}

// ErrorEntry creates an Error-kind entry. An empty path means [RootPath].
func ErrorEntry(path string, h ErrorHandler) Entry {
	return Entry{Kind: KindError, Path: scopeOrRoot(path), ErrorHandler: h}
}

func scopeOrRoot(path string) string {
	if path == "" {
		return RootPath
	}

	return path
}

// Stack is the append-only, ordered list of registered entries. It is not safe to register entries
// while requests are being dispatched.
type Stack struct {
	entries []Entry
}

// Register appends the entry to the stack.
func (s *Stack) Register(e Entry) {
	s.entries = append(s.entries, e)
}

// Len returns the number of registered entries.
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns the entries in registration order. Appending to the result never affects the stack.
func (s *Stack) Entries() []Entry {
	return s.entries[:len(s.entries):len(s.entries)]
}

// Matching returns the entries, in registration order, whose path applies to pathname.
func (s *Stack) Matching(pathname string) []Entry {
	return lo.Filter(s.entries, func(e Entry, _ int) bool {
		return Matches(e.Path, pathname)
	})
}

// Kinds summarizes the stack as the kind of each entry, in order.
func (s *Stack) Kinds() []Kind {
	return lo.Map(s.entries, func(e Entry, _ int) Kind { return e.Kind })
}
