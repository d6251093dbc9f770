// Package types provides the value types shared across craftbook components.
//
// Zero-dependency design: types.go and errors.go use only the standard library so
// the logic, parse and render packages stay importable without the service stack.
// ID utilities in ids.go import uuid but are only used by the dictionary store.
package types

import "fmt"

// Term is the atomic requirement unit: an identifier and the threshold it must reach.
// K is string for textual records and uint32 for numeric records.
type Term[K any] struct {
	Key   K
	Value uint32
}

// NewTerm builds a Term. Terms are values; copying never aliases.
func NewTerm[K any](key K, value uint32) Term[K] {
	return Term[K]{Key: key, Value: value}
}

// Connective joins two adjacent terms of a chain.
// It carries no precedence; meaning comes from its position in the chain.
type Connective int

const (
	And Connective = iota
	Or
)

// String returns the textual grammar symbol for the connective.
func (c Connective) String() string {
	switch c {
	case And:
		return "&"
	case Or:
		return "|"
	default:
		return fmt.Sprintf("Connective(%d)", int(c))
	}
}

// Meaning tags which identifier namespace a key belongs to.
// One lookup function serves several namespaces by switching on it.
type Meaning int

const (
	MeaningParam Meaning = iota
	MeaningItem
)

// String returns the lowercase name used in logs, metrics labels and config.
func (m Meaning) String() string {
	switch m {
	case MeaningParam:
		return "param"
	case MeaningItem:
		return "item"
	default:
		return fmt.Sprintf("Meaning(%d)", int(m))
	}
}

// FileName returns the dictionary file stem holding names for the namespace.
func (m Meaning) FileName() string {
	switch m {
	case MeaningParam:
		return "ParamNames"
	default:
		return "ItemNames"
	}
}

// ParseMeaning converts "param" or "item" to a Meaning.
func ParseMeaning(s string) (Meaning, error) {
	switch s {
	case "param", "params":
		return MeaningParam, nil
	case "item", "items":
		return MeaningItem, nil
	default:
		return 0, fmt.Errorf("unknown meaning %q (expected param or item)", s)
	}
}

// Meanings lists every namespace in a stable order.
func Meanings() []Meaning {
	return []Meaning{MeaningParam, MeaningItem}
}
