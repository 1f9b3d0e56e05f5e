package feacomposer

import (
	"github.com/typotheque/feacomposer/ast"
)

// ContextualInput marks one glyph of a chain-context rule as part of the
// input sequence, optionally naming lookups to apply at that position.
type ContextualInput struct {
	ref     GlyphRef
	lookups []*ast.LookupBlock
}

// Input builds a contextual-input marker for [Composer.SubChain].
func Input(ref GlyphRef, lookups ...*ast.LookupBlock) ContextualInput {
	return ContextualInput{ref: ref, lookups: lookups}
}

// requireOpenBlock fails rule builders called while no block is open. Rule
// statements have no top-level placement in FEA.
func (c *Composer) requireOpenBlock(op string) error {
	if len(c.stack) == 0 {
		return errUsage(op, "no open lookup or feature block")
	}
	return nil
}

// Sub appends a single substitution: one glyph or class replaced by one
// glyph or class.
func (c *Composer) Sub(input, output GlyphRef) error {
	const op = "Sub"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	in, err := c.normalize(op, "input", input)
	if err != nil {
		return err
	}
	out, err := c.normalize(op, "output", output)
	if err != nil {
		return err
	}
	c.appendStatement(&ast.SingleSubstStatement{In: in, Out: out})
	return nil
}

// SubMultiple appends a one-to-many substitution (GSUB type 2), splitting a
// single glyph into a sequence.
func (c *Composer) SubMultiple(input string, outputs ...string) error {
	const op = "SubMultiple"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	in, err := c.normalizeGlyphName(op, "input", input)
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		return errValidation(op, "outputs", "replacement sequence must not be empty")
	}
	replacement := make([]*ast.GlyphName, len(outputs))
	for i, name := range outputs {
		out, err := c.normalizeGlyphName(op, "outputs", name)
		if err != nil {
			return err
		}
		replacement[i] = out
	}
	c.appendStatement(&ast.MultipleSubstStatement{Glyph: in, Replacement: replacement})
	return nil
}

// SubLigature appends a many-to-one substitution (GSUB type 4), replacing a
// glyph sequence with a single ligature glyph.
func (c *Composer) SubLigature(inputs []GlyphRef, output string) error {
	const op = "SubLigature"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	if len(inputs) < 2 {
		return errValidation(op, "inputs", "ligature input requires at least 2 glyphs")
	}
	in, err := c.normalizeSeq(op, "inputs", inputs)
	if err != nil {
		return err
	}
	out, err := c.normalizeGlyphName(op, "output", output)
	if err != nil {
		return err
	}
	c.appendStatement(&ast.LigatureSubstStatement{Glyphs: in, Replacement: out})
	return nil
}

// SubMap appends a class-to-class substitution built from input/output
// glyph-name pairs, a shorthand for mapping many glyphs to their variants
// in one statement.
func (c *Composer) SubMap(pairs [][2]string) error {
	const op = "SubMap"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	if len(pairs) == 0 {
		return errValidation(op, "pairs", "mapping must not be empty")
	}
	in := make([]ast.GlyphRef, len(pairs))
	out := make([]ast.GlyphRef, len(pairs))
	for i, pair := range pairs {
		g, err := c.normalizeGlyphName(op, "pairs", pair[0])
		if err != nil {
			return err
		}
		in[i] = g
		if g, err = c.normalizeGlyphName(op, "pairs", pair[1]); err != nil {
			return err
		}
		out[i] = g
	}
	c.appendStatement(&ast.SingleSubstStatement{
		In:  &ast.GlyphClass{Glyphs: in},
		Out: &ast.GlyphClass{Glyphs: out},
	})
	return nil
}

// SubChain appends a chain-context substitution. The input sequence is
// marked; backtrack and lookahead provide context.
//
// With a non-nil replacement `by`, the rule substitutes the input in
// context: a single input glyph yields a contextual single substitution, a
// longer input yields a contextual ligature (`by` must then be a single
// glyph). Per-input lookups cannot be combined with a replacement.
//
// With a nil `by`, the inputs must carry lookups to apply
// ([Input] with lookup arguments); the rule becomes a chaining rule
// dispatching to those lookups. For ignore rules use [Composer.IgnoreSub].
func (c *Composer) SubChain(backtrack []GlyphRef, input []ContextualInput, lookahead []GlyphRef, by GlyphRef) error {
	const op = "SubChain"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	if len(input) == 0 {
		return errValidation(op, "input", "chain rule requires at least one input glyph")
	}
	prefix, err := c.normalizeSeq(op, "backtrack", backtrack)
	if err != nil {
		return err
	}
	suffix, err := c.normalizeSeq(op, "lookahead", lookahead)
	if err != nil {
		return err
	}
	inputs := make([]ast.GlyphRef, len(input))
	lookups := make([][]*ast.LookupBlock, len(input))
	haveLookups := false
	for i, item := range input {
		g, err := c.normalize(op, "input", item.ref)
		if err != nil {
			return err
		}
		inputs[i] = g
		lookups[i] = item.lookups
		if len(item.lookups) > 0 {
			haveLookups = true
		}
	}

	if by == nil {
		if !haveLookups {
			return errUsage(op, "a chain rule needs a replacement or per-input lookups; use IgnoreSub for ignore rules")
		}
		c.appendStatement(&ast.ChainContextSubstStatement{
			Prefix:  prefix,
			Input:   inputs,
			Suffix:  suffix,
			Lookups: lookups,
		})
		return nil
	}
	if haveLookups {
		return errUsage(op, "cannot combine a replacement with per-input lookups")
	}
	out, err := c.normalize(op, "by", by)
	if err != nil {
		return err
	}
	if len(inputs) == 1 {
		c.appendStatement(&ast.SingleSubstStatement{
			Prefix:     prefix,
			In:         inputs[0],
			Suffix:     suffix,
			Out:        out,
			ForceChain: true,
		})
		return nil
	}
	ligature, ok := out.(*ast.GlyphName)
	if !ok {
		return errValidation(op, "by", "a multi-glyph input requires a single ligature glyph as replacement")
	}
	c.appendStatement(&ast.LigatureSubstStatement{
		Prefix:      prefix,
		Glyphs:      inputs,
		Suffix:      suffix,
		Replacement: ligature,
		ForceChain:  true,
	})
	return nil
}

// IgnoreSub appends an `ignore sub` rule excluding the given context from
// later chain rules in the same lookup.
func (c *Composer) IgnoreSub(backtrack, input, lookahead []GlyphRef) error {
	const op = "IgnoreSub"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	if len(input) == 0 {
		return errValidation(op, "input", "ignore rule requires at least one input glyph")
	}
	prefix, err := c.normalizeSeq(op, "backtrack", backtrack)
	if err != nil {
		return err
	}
	in, err := c.normalizeSeq(op, "input", input)
	if err != nil {
		return err
	}
	suffix, err := c.normalizeSeq(op, "lookahead", lookahead)
	if err != nil {
		return err
	}
	c.appendStatement(&ast.IgnoreSubstStatement{Prefix: prefix, Input: in, Suffix: suffix})
	return nil
}

// Pos appends a single-adjustment positioning rule (GPOS type 1).
func (c *Composer) Pos(glyph GlyphRef, value ast.ValueRecord) error {
	const op = "Pos"
	if err := c.requireOpenBlock(op); err != nil {
		return err
	}
	g, err := c.normalize(op, "glyph", glyph)
	if err != nil {
		return err
	}
	c.appendStatement(&ast.SinglePosStatement{Glyph: g, Value: value})
	return nil
}

// normalizeGlyphName normalizes a bare glyph name where the grammar does
// not allow a class.
func (c *Composer) normalizeGlyphName(op, argument, name string) (*ast.GlyphName, error) {
	m, err := c.normalize(op, argument, G(name))
	if err != nil {
		return nil, err
	}
	return m.(*ast.GlyphName), nil
}
