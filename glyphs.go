package feacomposer

import (
	"strings"

	"github.com/typotheque/feacomposer/ast"
)

// GlyphRef is a reference to a glyph or glyph class in rule arguments. The
// set of implementations is closed: [Glyph] for single glyphs, [InlineClass]
// for anonymous classes, [ClassRef] for named class definitions.
type GlyphRef interface {
	isGlyphRef()
}

// Glyph references a single glyph by name. The name is passed through the
// composer's glyph-name processor when the reference is normalized.
type Glyph string

func (Glyph) isGlyphRef() {}

// G is shorthand for a single-glyph reference.
func G(name string) Glyph {
	return Glyph(name)
}

// InlineClass is an anonymous glyph class built by [Composer.GlyphClass].
type InlineClass struct {
	class *ast.GlyphClass
	err   error
}

func (InlineClass) isGlyphRef() {}

// ClassRef references a named glyph class defined by
// [Composer.NamedGlyphClass].
type ClassRef struct {
	def *ast.GlyphClassDefinition
}

func (ClassRef) isGlyphRef() {}

// Definition exposes the underlying AST node of a named class.
func (r ClassRef) Definition() *ast.GlyphClassDefinition {
	return r.def
}

// GlyphClass builds an inline glyph class from the given references.
// An invalid member reference does not fail here; it surfaces as a
// validation error at the rule call that uses the class.
func (c *Composer) GlyphClass(refs ...GlyphRef) InlineClass {
	members := make([]ast.GlyphRef, 0, len(refs))
	for _, ref := range refs {
		m, err := c.normalize("GlyphClass", "glyphs", ref)
		if err != nil {
			return InlineClass{err: err}
		}
		members = append(members, m)
	}
	return InlineClass{class: &ast.GlyphClass{Glyphs: members}}
}

// NamedGlyphClass appends a `@name = [...];` definition to the currently
// open block (or the document root) and returns a reference usable in
// rules. The name is given without the leading `@`.
func (c *Composer) NamedGlyphClass(name string, refs ...GlyphRef) (ClassRef, error) {
	const op = "NamedGlyphClass"
	if name == "" {
		return ClassRef{}, errValidation(op, "name", "class name must not be empty")
	}
	if strings.HasPrefix(name, "@") {
		return ClassRef{}, errValidation(op, "name", "class name is given without the leading @: "+name)
	}
	inline := c.GlyphClass(refs...)
	if inline.err != nil {
		return ClassRef{}, inline.err
	}
	def := &ast.GlyphClassDefinition{Name: name, Class: inline.class}
	c.appendStatement(def)
	return ClassRef{def: def}, nil
}

// normalize converts a GlyphRef into its AST form, applying the glyph-name
// processor and validating name shape.
func (c *Composer) normalize(op, argument string, ref GlyphRef) (ast.GlyphRef, error) {
	switch r := ref.(type) {
	case Glyph:
		name := string(r)
		if name == "" {
			return nil, errValidation(op, argument, "glyph name must not be empty")
		}
		if strings.HasPrefix(name, "@") || strings.ContainsRune(name, ' ') {
			return nil, errValidation(op, argument, "malformed glyph name: "+name)
		}
		if c.processGlyphName != nil {
			name = c.processGlyphName(name)
		}
		return &ast.GlyphName{Glyph: name}, nil
	case InlineClass:
		if r.err != nil {
			return nil, r.err
		}
		if r.class == nil {
			return nil, errValidation(op, argument, "empty inline glyph class")
		}
		return r.class, nil
	case ClassRef:
		if r.def == nil {
			return nil, errValidation(op, argument, "reference to an undefined glyph class")
		}
		return &ast.GlyphClassName{Definition: r.def}, nil
	case nil:
		return nil, errValidation(op, argument, "nil glyph reference")
	default:
		return nil, errValidation(op, argument, "unsupported glyph reference")
	}
}

// normalizeSeq normalizes a reference sequence in order.
func (c *Composer) normalizeSeq(op, argument string, refs []GlyphRef) ([]ast.GlyphRef, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	seq := make([]ast.GlyphRef, len(refs))
	for i, ref := range refs {
		m, err := c.normalize(op, argument, ref)
		if err != nil {
			return nil, err
		}
		seq[i] = m
	}
	return seq, nil
}

// normalizeClass is like normalize but requires the reference to be a glyph
// class (inline or named), as lookup-flag attachment sets must be.
func (c *Composer) normalizeClass(op, argument string, ref GlyphRef) (ast.GlyphRef, error) {
	m, err := c.normalize(op, argument, ref)
	if err != nil {
		return nil, err
	}
	switch m.(type) {
	case *ast.GlyphClass, *ast.GlyphClassName:
		return m, nil
	}
	return nil, errValidation(op, argument, "a glyph class is required here")
}
