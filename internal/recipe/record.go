// internal/recipe/record.go
package recipe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/craftbook/internal/logic"
	"github.com/solatis/craftbook/internal/parse"
	"github.com/solatis/craftbook/internal/types"
)

/*
 * Recipe record grammar.
 *
 * Textual record, fields separated by the '@' delimiter:
 *
 *   NAME@DESC@SEE@CRAFT@INGREDIENTS@TOOLS@OUTPUT@EFFECT
 *
 * SEE, CRAFT and TOOLS may be empty. INGREDIENTS and OUTPUT must hold a chain.
 * Every requirement field uses the textual chain grammar with string keys.
 *
 * Numeric record, marked by a leading '!':
 *
 *   !NAME@DESC@<SEE><CRAFT><INGREDIENTS><TOOLS><OUTPUT>EFFECT
 *
 * After DESC the requirement fields are consecutive positional runs in the
 * prefixed layout; OUTPUT carries no or-flag run.
 *
 * EFFECT is "script MODULE@FUNCTION", "exp N", or a bare "script" / "exp"
 * (numeric records only carry the kind). It runs to the end of the line.
 *
 * Error positions are byte offsets into the whole record line.
 */

// NumericMarker prefixes numeric recipe records.
const NumericMarker = '!'

// Any holds a record of either form, as found in a mixed recipe file.
type Any struct {
	textual *Recipe[string]
	numeric *Recipe[uint32]
}

// IsNumeric reports whether the record was in numeric form.
func (a Any) IsNumeric() bool {
	return a.numeric != nil
}

// Name returns the record name regardless of form.
func (a Any) Name() string {
	if a.numeric != nil {
		return a.numeric.Name
	}
	if a.textual != nil {
		return a.textual.Name
	}
	return ""
}

// Textual returns the textual record, or ErrStructuralMismatch for a numeric one.
func (a Any) Textual() (Recipe[string], error) {
	if a.textual == nil {
		return Recipe[string]{}, fmt.Errorf("%w: expected textual recipe, found numeric recipe %q", types.ErrStructuralMismatch, a.Name())
	}
	return *a.textual, nil
}

// Numeric returns the numeric record, or ErrStructuralMismatch for a textual one.
func (a Any) Numeric() (Recipe[uint32], error) {
	if a.numeric == nil {
		return Recipe[uint32]{}, fmt.Errorf("%w: expected numeric recipe, found textual recipe %q", types.ErrStructuralMismatch, a.Name())
	}
	return *a.numeric, nil
}

// Parse reads one record line of either form.
func Parse(line string) (Any, error) {
	if strings.HasPrefix(line, string(NumericMarker)) {
		r, err := parseNumeric(line, 1)
		if err != nil {
			return Any{}, err
		}
		return Any{numeric: &r}, nil
	}
	r, err := parseTextual(line, 0)
	if err != nil {
		return Any{}, err
	}
	return Any{textual: &r}, nil
}

// ParseTextual reads a textual record line.
func ParseTextual(line string) (Recipe[string], error) {
	rec, err := Parse(line)
	if err != nil {
		return Recipe[string]{}, err
	}
	return rec.Textual()
}

// ParseNumeric reads a numeric record line, including its leading marker.
func ParseNumeric(line string) (Recipe[uint32], error) {
	rec, err := Parse(line)
	if err != nil {
		return Recipe[uint32]{}, err
	}
	return rec.Numeric()
}

func parseTextual(line string, start int) (Recipe[string], error) {
	rec := &record{input: line, pos: start}
	h, err := rec.header()
	if err != nil {
		return Recipe[string]{}, err
	}
	out := Recipe[string]{Name: h.name, Description: h.description, HasDescription: h.hasDescription}

	if out.ParamsToSee, err = rec.optionalText("params to see"); err != nil {
		return Recipe[string]{}, err
	}
	if out.ParamsToCraft, err = rec.optionalText("params to craft"); err != nil {
		return Recipe[string]{}, err
	}
	if out.Ingredients, err = rec.text("ingredients"); err != nil {
		return Recipe[string]{}, err
	}
	if out.Tools, err = rec.optionalText("tools"); err != nil {
		return Recipe[string]{}, err
	}
	if out.Output, err = rec.text("output"); err != nil {
		return Recipe[string]{}, err
	}
	if out.SideEffect, err = rec.sideEffect(); err != nil {
		return Recipe[string]{}, err
	}
	return out, nil
}

func parseNumeric(line string, start int) (Recipe[uint32], error) {
	rec := &record{input: line, pos: start}
	h, err := rec.header()
	if err != nil {
		return Recipe[uint32]{}, err
	}
	out := Recipe[uint32]{Name: h.name, Description: h.description, HasDescription: h.hasDescription}

	if out.ParamsToSee, err = rec.optionalNumeric("params to see", parse.PrefixedWithOrs); err != nil {
		return Recipe[uint32]{}, err
	}
	if out.ParamsToCraft, err = rec.optionalNumeric("params to craft", parse.PrefixedWithOrs); err != nil {
		return Recipe[uint32]{}, err
	}
	if out.Ingredients, err = rec.numeric("ingredients", parse.PrefixedWithOrs); err != nil {
		return Recipe[uint32]{}, err
	}
	if out.Tools, err = rec.optionalNumeric("tools", parse.PrefixedWithOrs); err != nil {
		return Recipe[uint32]{}, err
	}
	if out.Output, err = rec.numeric("output", parse.PrefixedWithoutOrs); err != nil {
		return Recipe[uint32]{}, err
	}
	if out.SideEffect, err = rec.sideEffect(); err != nil {
		return Recipe[uint32]{}, err
	}
	return out, nil
}

// record is a cursor over one record line.
type record struct {
	input string
	pos   int
}

type header struct {
	name           string
	description    string
	hasDescription bool
}

func (r *record) header() (header, error) {
	name, pos, err := r.field("name")
	if err != nil {
		return header{}, err
	}
	if name == "" {
		return header{}, fieldError("name", 0, types.NewParseError(pos, types.KindExpectedToken, "recipe name is empty"))
	}
	desc, _, err := r.field("description")
	if err != nil {
		return header{}, err
	}
	return header{name: name, description: desc, hasDescription: desc != ""}, nil
}

// field returns the text up to the next delimiter and its offset, moving past the delimiter.
func (r *record) field(name string) (string, int, error) {
	start := r.pos
	i := strings.IndexByte(r.input[start:], parse.Delimiter)
	if i < 0 {
		return "", start, fieldError(name, 0, types.NewParseError(len(r.input), types.KindExpectedToken, "expected %q to close the field", parse.Delimiter))
	}
	r.pos = start + i + 1
	return r.input[start : start+i], start, nil
}

func (r *record) optionalText(name string) (*logic.Chain[string], error) {
	text, offset, err := r.field(name)
	if err != nil {
		return nil, err
	}
	chain, err := parse.OptionalChain(text, parse.StringKey)
	if err != nil {
		return nil, fieldError(name, offset, err)
	}
	return chain, nil
}

func (r *record) text(name string) (logic.Chain[string], error) {
	text, offset, err := r.field(name)
	if err != nil {
		return logic.Chain[string]{}, err
	}
	if strings.TrimSpace(text) == "" {
		return logic.Chain[string]{}, fieldError(name, 0, types.NewParseError(offset, types.KindEmptyField, "required field is empty"))
	}
	chain, err := parse.FullChain(text, parse.StringKey)
	if err != nil {
		return logic.Chain[string]{}, fieldError(name, offset, err)
	}
	return chain, nil
}

func (r *record) optionalNumeric(name string, enc parse.Positional) (*logic.Chain[uint32], error) {
	rest, chain, err := parse.OptionalNumericChain(r.input[r.pos:], enc)
	if err != nil {
		return nil, fieldError(name, r.pos, err)
	}
	r.pos = len(r.input) - len(rest)
	return chain, nil
}

func (r *record) numeric(name string, enc parse.Positional) (logic.Chain[uint32], error) {
	rest, chain, err := parse.NumericChain(r.input[r.pos:], enc)
	if err != nil {
		return logic.Chain[uint32]{}, fieldError(name, r.pos, err)
	}
	r.pos = len(r.input) - len(rest)
	return chain, nil
}

// sideEffect consumes the rest of the line.
func (r *record) sideEffect() (SideEffect, error) {
	text := r.input[r.pos:]
	trimmed := strings.TrimSpace(text)
	offset := r.pos + strings.Index(text, trimmed)

	fail := func(kind types.ParseErrorKind, format string, args ...any) (SideEffect, error) {
		return SideEffect{}, fieldError("side effect", 0, types.NewParseError(offset, kind, format, args...))
	}

	keyword, arg, hasArg := trimmed, "", false
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		keyword, arg, hasArg = trimmed[:i], strings.TrimSpace(trimmed[i+1:]), true
	}
	switch {
	case keyword == "script" && !hasArg:
		return Script("", ""), nil
	case keyword == "exp" && !hasArg:
		return Experience(0), nil
	case keyword == "script":
		module, function, ok := strings.Cut(arg, string(parse.Delimiter))
		if !ok || module == "" || function == "" {
			return fail(types.KindExpectedToken, "expected MODULE@FUNCTION, found %q", arg)
		}
		if strings.ContainsAny(function, " \t") {
			return fail(types.KindTrailing, "unexpected text after function %q", function)
		}
		return Script(module, function), nil
	case keyword == "exp":
		exp, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return fail(types.KindNotANumber, "experience %q is not an unsigned integer", arg)
		}
		return Experience(uint32(exp)), nil
	case trimmed == "":
		return fail(types.KindExpectedToken, "expected side effect, found end of input")
	default:
		return fail(types.KindExpectedToken, "expected script or exp, found %q", keyword)
	}
}

// fieldError names the failing field and moves a grammar error's position
// from field-relative to record-relative.
func fieldError(name string, offset int, err error) error {
	var perr *types.ParseError
	if errors.As(err, &perr) {
		err = perr.Shift(offset)
	}
	return fmt.Errorf("%s: %w", name, err)
}
