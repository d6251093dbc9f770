// internal/recipe/book.go
package recipe

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Line is one record line with the index it is filed under.
type Line struct {
	Index uint32
	Text  string
}

// Book holds recipes keyed by record index. Iteration is in ascending index order.
// A later record with an already used index replaces the earlier one.
type Book[R any] struct {
	recipes map[uint32]R
}

// NewBook returns an empty book.
func NewBook[R any]() *Book[R] {
	return &Book[R]{recipes: make(map[uint32]R)}
}

// Put files r under index.
func (b *Book[R]) Put(index uint32, r R) {
	if b.recipes == nil {
		b.recipes = make(map[uint32]R)
	}
	b.recipes[index] = r
}

// Get returns the recipe filed under index.
func (b *Book[R]) Get(index uint32) (R, bool) {
	r, ok := b.recipes[index]
	return r, ok
}

// Len returns the number of recipes.
func (b *Book[R]) Len() int {
	return len(b.recipes)
}

// Indices returns every index in ascending order.
func (b *Book[R]) Indices() []uint32 {
	return slices.Sorted(maps.Keys(b.recipes))
}

// All yields (index, recipe) pairs in ascending index order.
func (b *Book[R]) All() iter.Seq2[uint32, R] {
	return func(yield func(uint32, R) bool) {
		for _, index := range b.Indices() {
			if !yield(index, b.recipes[index]) {
				return
			}
		}
	}
}

// Load parses every line in either form.
func Load(lines []Line) (*Book[Any], error) {
	return load(lines, Parse)
}

// LoadTextual parses every line, failing on numeric records.
func LoadTextual(lines []Line) (*Book[Recipe[string]], error) {
	return load(lines, ParseTextual)
}

// LoadNumeric parses every line, failing on textual records.
func LoadNumeric(lines []Line) (*Book[Recipe[uint32]], error) {
	return load(lines, ParseNumeric)
}

func load[R any](lines []Line, parseLine func(string) (R, error)) (*Book[R], error) {
	book := NewBook[R]()
	for _, line := range lines {
		r, err := parseLine(line.Text)
		if err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", line.Index, err)
		}
		book.Put(line.Index, r)
	}
	return book, nil
}

// MapBook transforms every recipe in index order. The first failure is
// returned tagged with its record index and no book is produced.
func MapBook[R, R2 any](b *Book[R], f func(R) (R2, error)) (*Book[R2], error) {
	out := NewBook[R2]()
	for index, r := range b.All() {
		mapped, err := f(r)
		if err != nil {
			return nil, fmt.Errorf("recipe #%d: %w", index, err)
		}
		out.Put(index, mapped)
	}
	return out, nil
}
