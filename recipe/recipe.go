// Package recipe compiles a declarative YAML description of a feature file
// into FEA source text, driving the composer in the root package. It is the
// non-interactive input format of the feacli tool.
//
// A recipe looks like:
//
//	languageSystems:
//	  latn: [dflt]
//	classes:
//	  - name: figures
//	    glyphs: [one, five, eight]
//	features:
//	  - tag: liga
//	    lookups:
//	      - rules:
//	          - sub: [f, i]
//	            by: [f_i]
//
// Class members and rule references may name a previously defined class as
// "@name". Rule shape follows the composer's builders: one input and one
// output is a single substitution, one input and several outputs a multiple
// substitution, several inputs and one output a ligature.
//
// # License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
package recipe

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/typotheque/feacomposer"
)

// Recipe is the top-level YAML document.
type Recipe struct {
	LanguageSystems map[string][]string `yaml:"languageSystems"`
	Classes         []Class             `yaml:"classes"`
	Features        []Feature           `yaml:"features"`
}

// Class defines a named glyph class.
type Class struct {
	Name   string   `yaml:"name"`
	Glyphs []string `yaml:"glyphs"`
}

// Feature groups lookups under one feature tag.
type Feature struct {
	Tag     string   `yaml:"tag"`
	Lookups []Lookup `yaml:"lookups"`
}

// Lookup is one lookup block. An empty name auto-generates one.
type Lookup struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
	Rules []Rule   `yaml:"rules"`
}

// Rule is one substitution statement. With By set, the input/output arity
// selects the GSUB rule type; without By the rule is an ignore rule.
type Rule struct {
	Sub    []string `yaml:"sub"`
	By     []string `yaml:"by"`
	Ignore bool     `yaml:"ignore"`
}

// Load parses a YAML recipe.
func Load(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("recipe: %w", err)
	}
	return &r, nil
}

// Compose runs the recipe through a composer and returns the FEA text.
func (r *Recipe) Compose() (string, error) {
	c := feacomposer.New(
		feacomposer.WithLanguageSystems(feacomposer.LanguageSystems(r.LanguageSystems)),
	)
	classes := map[string]feacomposer.GlyphRef{}
	for _, class := range r.Classes {
		refs, err := resolveRefs(classes, class.Glyphs)
		if err != nil {
			return "", fmt.Errorf("recipe: class %s: %w", class.Name, err)
		}
		def, err := c.NamedGlyphClass(class.Name, refs...)
		if err != nil {
			return "", err
		}
		classes["@"+class.Name] = def
	}
	for _, feature := range r.Features {
		feature := feature
		_, err := c.Feature(feature.Tag, func(c *feacomposer.Composer) error {
			for _, lookup := range feature.Lookups {
				flags, err := lookupFlags(lookup.Flags)
				if err != nil {
					return err
				}
				opts := feacomposer.LookupOptions{Flags: flags}
				if _, err := c.Lookup(lookup.Name, opts, func(c *feacomposer.Composer) error {
					for _, rule := range lookup.Rules {
						if err := applyRule(c, classes, rule); err != nil {
							return err
						}
					}
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return "", err
		}
	}
	return c.Fea(), nil
}

// applyRule maps one YAML rule onto the composer builder matching its arity.
func applyRule(c *feacomposer.Composer, classes map[string]feacomposer.GlyphRef, rule Rule) error {
	inputs, err := resolveRefs(classes, rule.Sub)
	if err != nil {
		return err
	}
	if rule.Ignore {
		if len(rule.By) > 0 {
			return fmt.Errorf("recipe: an ignore rule cannot have a replacement")
		}
		return c.IgnoreSub(nil, inputs, nil)
	}
	switch {
	case len(inputs) == 1 && len(rule.By) == 1:
		out, err := resolveRef(classes, rule.By[0])
		if err != nil {
			return err
		}
		return c.Sub(inputs[0], out)
	case len(inputs) == 1:
		return c.SubMultiple(rule.Sub[0], rule.By...)
	case len(rule.By) == 1:
		return c.SubLigature(inputs, rule.By[0])
	default:
		return fmt.Errorf("recipe: unsupported rule arity: %d inputs, %d outputs",
			len(inputs), len(rule.By))
	}
}

// lookupFlags translates YAML flag names.
func lookupFlags(names []string) (*feacomposer.LookupFlags, error) {
	if len(names) == 0 {
		return nil, nil
	}
	flags := &feacomposer.LookupFlags{}
	for _, name := range names {
		switch name {
		case "RightToLeft":
			flags.RightToLeft = true
		case "IgnoreBaseGlyphs":
			flags.IgnoreBaseGlyphs = true
		case "IgnoreLigatures":
			flags.IgnoreLigatures = true
		case "IgnoreMarks":
			flags.IgnoreMarks = true
		default:
			return nil, fmt.Errorf("recipe: unknown lookup flag %q", name)
		}
	}
	return flags, nil
}

// resolveRef turns a YAML glyph token into a composer reference; "@name"
// resolves to a previously defined class.
func resolveRef(classes map[string]feacomposer.GlyphRef, token string) (feacomposer.GlyphRef, error) {
	if len(token) > 0 && token[0] == '@' {
		ref, ok := classes[token]
		if !ok {
			return nil, fmt.Errorf("recipe: undefined class %s", token)
		}
		return ref, nil
	}
	return feacomposer.G(token), nil
}

func resolveRefs(classes map[string]feacomposer.GlyphRef, tokens []string) ([]feacomposer.GlyphRef, error) {
	refs := make([]feacomposer.GlyphRef, len(tokens))
	for i, token := range tokens {
		ref, err := resolveRef(classes, token)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}
