// Package render formats requirement chains and trees as human-readable text.
package render

/*
 * Renderer configuration.
 *
 * Config is a plain value: builder methods return modified copies, so a
 * shared default can be extended per call site without aliasing.
 *
 * TopLevelSep is written before each And joining the top-level groups only,
 * letting callers break long requirements onto lines without affecting
 * bracketed sub-expressions or a lone top-level disjunction.
 */

// Config controls connective text, value decoration and bracketing.
type Config struct {
	And         string
	Or          string
	ValuePrefix string
	ValueSuffix string
	// ShowValue decides per term whether the threshold is printed. nil shows every value.
	ShowValue   func(value uint32) bool
	TopLevelSep string
	Open        string
	Close       string
}

// Default returns the lowercase connective configuration: "KEY: N and (A: 1 or B: 2)".
func Default() Config {
	return Config{
		And:         " and ",
		Or:          " or ",
		ValuePrefix: ": ",
		Open:        "(",
		Close:       ")",
	}
}

// New returns Default with custom connective text.
func New(and, or string) Config {
	cfg := Default()
	cfg.And = and
	cfg.Or = or
	return cfg
}

// WithValuePrefix sets the text written between a key and its value.
func (c Config) WithValuePrefix(prefix string) Config {
	c.ValuePrefix = prefix
	return c
}

// WithValueSuffix sets the text written after a value.
func (c Config) WithValueSuffix(suffix string) Config {
	c.ValueSuffix = suffix
	return c
}

// ShowValueIf hides values for which show returns false.
func (c Config) ShowValueIf(show func(value uint32) bool) Config {
	c.ShowValue = show
	return c
}

// SeparateTopLevel sets the separator written before each top-level And.
func (c Config) SeparateTopLevel(sep string) Config {
	c.TopLevelSep = sep
	return c
}

// WithBrackets sets the grouping brackets.
func (c Config) WithBrackets(open, closing string) Config {
	c.Open = open
	c.Close = closing
	return c
}

// NoBrackets disables grouping brackets.
func (c Config) NoBrackets() Config {
	return c.WithBrackets("", "")
}

// AtLeast returns a ShowValue predicate that hides values below threshold.
func AtLeast(threshold uint32) func(uint32) bool {
	return func(v uint32) bool {
		return v >= threshold
	}
}

func (c Config) showValue(v uint32) bool {
	if c.ShowValue == nil {
		return true
	}
	return c.ShowValue(v)
}
