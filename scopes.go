package feacomposer

import (
	"fmt"

	"github.com/typotheque/feacomposer/ast"
)

// LookupFlags is the set of lookup flags emitted at the top of a lookup
// block. The zero value serializes as `lookupflag 0;`. A lookupflag
// statement is emitted for every lookup, so flags never carry over from a
// preceding lookup.
type LookupFlags struct {
	RightToLeft      bool
	IgnoreBaseGlyphs bool
	IgnoreLigatures  bool
	IgnoreMarks      bool
	MarkAttachment   GlyphRef // glyph class; restricts mark handling to the class
	MarkFilteringSet GlyphRef // glyph class; UseMarkFilteringSet
}

// LookupOptions configures a lookup scope.
type LookupOptions struct {
	// Feature, when set, wraps the lookup in a `feature xxxx { ... }`
	// block. Must be exactly 4 characters.
	Feature string

	// LanguageSystems distributes the lookup over script/language pairs
	// within the feature block: the first pair inlines the lookup block,
	// subsequent pairs reference it. Requires Feature. When nil, the
	// composer's registered language systems are used.
	LanguageSystems LanguageSystems

	// Flags become the leading `lookupflag` statement of the block.
	Flags *LookupFlags
}

// Lookup opens a lookup block scope, runs populate with the block as the
// innermost open context, and attaches the finished block when the scope
// closes. Attachment happens on every exit path, including an error
// returned by populate and a panic inside it, so a block is never orphaned
// and never attached twice.
//
// An empty name auto-generates a document-unique one (`_1`, `_2`, ...).
// Returns the block so it can be referenced by chain-context rules and
// [Composer.LookupReference].
func (c *Composer) Lookup(name string, opts LookupOptions, populate func(*Composer) error) (*ast.LookupBlock, error) {
	const op = "Lookup"

	if opts.Feature == "" && len(opts.LanguageSystems) > 0 {
		return nil, errUsage(op, "language systems require a feature tag")
	}
	var feature ast.Tag
	langSys := opts.LanguageSystems
	if opts.Feature != "" {
		if len(opts.Feature) != 4 {
			return nil, errValidation(op, "feature",
				fmt.Sprintf("feature tag must be exactly 4 characters: %q", opts.Feature))
		}
		feature = ast.T(opts.Feature)
		if langSys == nil {
			langSys = c.languageSystems
		}
		if err := c.checkLanguageSystems(op, langSys); err != nil {
			return nil, err
		}
	}

	if name == "" {
		name = fmt.Sprintf("_%d", c.nextLookupNumber)
		c.nextLookupNumber++
	}
	block := ast.NewLookupBlock(name)
	flagStmt, err := c.lookupFlagStatement(op, opts.Flags)
	if err != nil {
		return nil, err
	}
	block.Statements = append(block.Statements, flagStmt)

	tracer().Debugf("opening lookup %s", name)
	c.push(&scope{kind: scopeLookup, stmts: &block.Statements})
	defer func() {
		c.pop()
		c.attachLookup(block, feature, langSys)
		tracer().Debugf("closed lookup %s", name)
	}()
	if populate != nil {
		if err := populate(c); err != nil {
			return block, err
		}
	}
	return block, nil
}

// Feature opens a plain `feature xxxx { ... } xxxx;` block scope. The tag
// must be exactly 4 characters. Like [Composer.Lookup], the block is
// attached to its parent exactly once on every exit path.
func (c *Composer) Feature(tag string, populate func(*Composer) error) (*ast.FeatureBlock, error) {
	return c.feature(tag, "", populate)
}

// FeatureNamed is like [Composer.Feature] but also emits a
// `featureNames { name "..."; };` sub-block carrying the feature's UI name,
// as used for stylistic sets.
func (c *Composer) FeatureNamed(tag, displayName string, populate func(*Composer) error) (*ast.FeatureBlock, error) {
	if displayName == "" {
		return nil, errValidation("Feature", "displayName", "display name must not be empty")
	}
	return c.feature(tag, displayName, populate)
}

func (c *Composer) feature(tag, displayName string, populate func(*Composer) error) (*ast.FeatureBlock, error) {
	const op = "Feature"
	if len(tag) != 4 {
		return nil, errValidation(op, "tag",
			fmt.Sprintf("feature tag must be exactly 4 characters: %q", tag))
	}
	block := ast.NewFeatureBlock(ast.T(tag))
	if displayName != "" {
		block.Statements = append(block.Statements,
			&ast.FeatureNamesBlock{Names: []string{displayName}})
	}

	tracer().Debugf("opening feature %s", tag)
	c.push(&scope{kind: scopeFeature, stmts: &block.Statements})
	defer func() {
		c.pop()
		c.appendStatement(block)
		tracer().Debugf("closed feature %s", tag)
	}()
	if populate != nil {
		if err := populate(c); err != nil {
			return block, err
		}
	}
	return block, nil
}

// LookupReference registers a previously built lookup under a feature tag,
// appending a feature block that references it. When language systems are
// given (or registered on the composer), the reference is repeated per
// script/language pair.
func (c *Composer) LookupReference(lookup *ast.LookupBlock, feature string, langSys LanguageSystems) error {
	const op = "LookupReference"
	if lookup == nil {
		return errValidation(op, "lookup", "nil lookup block")
	}
	if len(feature) != 4 {
		return errValidation(op, "feature",
			fmt.Sprintf("feature tag must be exactly 4 characters: %q", feature))
	}
	if langSys == nil {
		langSys = c.languageSystems
	}
	if err := c.checkLanguageSystems(op, langSys); err != nil {
		return err
	}
	block := ast.NewFeatureBlock(ast.T(feature))
	reference := &ast.LookupReferenceStatement{Lookup: lookup}
	if len(langSys) == 0 {
		block.Statements = append(block.Statements, reference)
	} else {
		for _, ls := range sortedLanguageSystems(langSys) {
			for _, lang := range ls.languages {
				block.Statements = append(block.Statements,
					&ast.ScriptStatement{Script: ast.T(ls.script)},
					&ast.LanguageStatement{Language: ast.T(lang)},
					reference)
			}
		}
	}
	c.appendStatement(block)
	return nil
}

// attachLookup appends the closed lookup block to the current target,
// wrapped in a feature block when a feature tag was given. With language
// systems, the block is inlined at the first script/language pair and
// referenced at the rest.
func (c *Composer) attachLookup(block *ast.LookupBlock, feature ast.Tag, langSys LanguageSystems) {
	if feature == 0 {
		c.appendStatement(block)
		return
	}
	featureBlock := ast.NewFeatureBlock(feature)
	if len(langSys) == 0 {
		featureBlock.Statements = append(featureBlock.Statements, block)
	} else {
		inlined := false
		for _, ls := range sortedLanguageSystems(langSys) {
			for _, lang := range ls.languages {
				featureBlock.Statements = append(featureBlock.Statements,
					&ast.ScriptStatement{Script: ast.T(ls.script)},
					&ast.LanguageStatement{Language: ast.T(lang)})
				if !inlined {
					featureBlock.Statements = append(featureBlock.Statements, block)
					inlined = true
				} else {
					featureBlock.Statements = append(featureBlock.Statements,
						&ast.LookupReferenceStatement{Lookup: block})
				}
			}
		}
	}
	c.appendStatement(featureBlock)
}

// checkLanguageSystems verifies that every script/language pair is
// registered on the composer.
func (c *Composer) checkLanguageSystems(op string, langSys LanguageSystems) error {
	for _, ls := range sortedLanguageSystems(langSys) {
		if len(ls.languages) == 0 {
			return errValidation(op, "languageSystems",
				"script "+ls.script+" has no languages")
		}
		registered := map[string]bool{}
		for _, lang := range c.languageSystems[ls.script] {
			registered[lang] = true
		}
		for _, lang := range ls.languages {
			if !registered[lang] {
				return errValidation(op, "languageSystems",
					fmt.Sprintf("language system %s/%s is not registered on the composer", ls.script, lang))
			}
		}
	}
	return nil
}

// lookupFlagStatement builds the leading lookupflag statement of a lookup
// block.
func (c *Composer) lookupFlagStatement(op string, flags *LookupFlags) (*ast.LookupFlagStatement, error) {
	stmt := &ast.LookupFlagStatement{}
	if flags == nil {
		return stmt, nil
	}
	if flags.RightToLeft {
		stmt.Value |= ast.LookupFlagRightToLeft
	}
	if flags.IgnoreBaseGlyphs {
		stmt.Value |= ast.LookupFlagIgnoreBaseGlyphs
	}
	if flags.IgnoreLigatures {
		stmt.Value |= ast.LookupFlagIgnoreLigatures
	}
	if flags.IgnoreMarks {
		stmt.Value |= ast.LookupFlagIgnoreMarks
	}
	if flags.MarkAttachment != nil {
		m, err := c.normalizeClass(op, "MarkAttachment", flags.MarkAttachment)
		if err != nil {
			return nil, err
		}
		stmt.MarkAttachment = m
	}
	if flags.MarkFilteringSet != nil {
		m, err := c.normalizeClass(op, "MarkFilteringSet", flags.MarkFilteringSet)
		if err != nil {
			return nil, err
		}
		stmt.MarkFilteringSet = m
	}
	return stmt, nil
}
