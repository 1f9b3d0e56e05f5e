package feacomposer

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/typotheque/feacomposer/internal/feacheck"
)

func TestLigaScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New(WithLanguageSystems(LanguageSystems{"latn": {"dflt"}}))
	_, err := c.Feature("liga", func(c *Composer) error {
		_, err := c.Lookup("", LookupOptions{}, func(c *Composer) error {
			return c.SubLigature([]GlyphRef{G("f"), G("i")}, "fi")
		})
		return err
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	text := c.Fea()
	root, err := feacheck.Parse(text)
	if err != nil {
		t.Fatalf("emitted text is not well-formed:\n%s\n%v", text, err)
	}
	feature := root.Child(0)
	if feature == nil || feature.Header != "feature liga" {
		t.Fatalf("expected a 'feature liga' block, got %+v\n%s", feature, text)
	}
	if !strings.Contains(text, "} liga;") {
		t.Errorf("feature block is not closed with its tag:\n%s", text)
	}
	lookup := feature.Child(0)
	if lookup == nil || !strings.HasPrefix(lookup.Header, "lookup ") {
		t.Fatalf("expected a lookup block inside the feature, got %+v\n%s", lookup, text)
	}
	if !lookup.HasStatement("sub f i by fi;") {
		t.Errorf("missing ligature rule in lookup block:\n%s", text)
	}
}

func TestLanguageSystemSorting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New(WithLanguageSystems(LanguageSystems{
		"deva": {"MAR ", "dflt"},
		"DFLT": {"dflt"},
		"dev2": {"dflt", "MAR "},
	}))
	var lines []string
	for _, stmt := range c.LanguageSystemStatements() {
		lines = append(lines, stmt.Fea(""))
	}
	want := []string{
		"languagesystem DFLT dflt;",
		"languagesystem dev2 dflt;",
		"languagesystem dev2 MAR ;",
		"languagesystem deva dflt;",
		"languagesystem deva MAR ;",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d languagesystem statements, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("statement %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestGlyphNameProcessor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New(WithGlyphNameProcessor(func(name string) string { return "Deva:" + name }))
	_, err := c.Lookup("repha", LookupOptions{}, func(c *Composer) error {
		return c.SubLigature([]GlyphRef{G("ra"), G("virama")}, "repha")
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	if !strings.Contains(c.Fea(), "sub Deva:ra Deva:virama by Deva:repha;") {
		t.Errorf("glyph names were not processed:\n%s", c.Fea())
	}
}

func TestMalformedGlyphName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("x", LookupOptions{}, func(c *Composer) error {
		return c.Sub(G("@foo"), G("b"))
	})
	var verr ValidationError
	if err == nil {
		t.Fatalf("expected a validation error for glyph name @foo")
	} else if !errors.As(err, &verr) {
		t.Errorf("expected a ValidationError, got %T: %v", err, err)
	}
}

func TestNamedGlyphClass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	class, err := c.NamedGlyphClass("thaLike", G("tha"), G("dha"))
	if err != nil {
		t.Fatalf("class definition failed: %v", err)
	}
	_, err = c.Lookup("pres", LookupOptions{}, func(c *Composer) error {
		return c.SubChain([]GlyphRef{class}, []ContextualInput{Input(G("repha"))}, nil, G("repha.tha"))
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	text := c.Fea()
	if !strings.Contains(text, "@thaLike = [tha dha];") {
		t.Errorf("missing class definition:\n%s", text)
	}
	if !strings.Contains(text, "sub @thaLike repha' by repha.tha;") {
		t.Errorf("missing contextual rule using the class:\n%s", text)
	}
	if _, err := c.NamedGlyphClass("@bad", G("a")); err == nil {
		t.Errorf("expected a validation error for a class name starting with @")
	}
}

func TestSerializationIsRepeatable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New(WithLanguageSystems(LanguageSystems{"latn": {"dflt"}}))
	_, err := c.Lookup("", LookupOptions{Feature: "liga"}, func(c *Composer) error {
		return c.SubLigature([]GlyphRef{G("f"), G("i")}, "f_i")
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	first := c.Fea()
	second := c.Fea()
	if first != second {
		t.Errorf("serializing twice produced different text:\n%s\n---\n%s", first, second)
	}
}

func TestComposerRemainsMutableAfterSerialization(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	c.Comment("first")
	before := c.Fea()
	c.Comment("second")
	after := c.Fea()
	if before == after {
		t.Errorf("composer did not accept statements after serialization")
	}
	if !strings.Contains(after, "# second") {
		t.Errorf("missing statement added after serialization:\n%s", after)
	}
}
