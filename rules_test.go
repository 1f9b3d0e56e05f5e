package feacomposer

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/typotheque/feacomposer/ast"
)

func TestRuleOutsideBlockFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	var uerr UsageError
	if err := c.Sub(G("a"), G("b")); !errors.As(err, &uerr) {
		t.Errorf("expected a usage error for Sub at document root, got %v", err)
	}
	if err := c.SubLigature([]GlyphRef{G("f"), G("i")}, "f_i"); !errors.As(err, &uerr) {
		t.Errorf("expected a usage error for SubLigature at document root, got %v", err)
	}
	if err := c.Pos(G("one"), ast.ValueRecord{XAdvance: 80}); !errors.As(err, &uerr) {
		t.Errorf("expected a usage error for Pos at document root, got %v", err)
	}
	// document-root-legal statements still work
	c.Comment("fine at root")
	if _, err := c.NamedGlyphClass("ok", G("a")); err != nil {
		t.Errorf("named classes are root-legal, got %v", err)
	}
}

func TestEmptyReferenceListsFail(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("x", LookupOptions{}, func(c *Composer) error {
		var verr ValidationError
		if err := c.SubLigature(nil, "f_i"); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for an empty ligature input, got %v", err)
		}
		if err := c.SubMultiple("f_i"); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for an empty replacement, got %v", err)
		}
		if err := c.SubChain(nil, nil, nil, G("x")); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for an empty chain input, got %v", err)
		}
		if err := c.IgnoreSub(nil, nil, nil); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for an empty ignore input, got %v", err)
		}
		if err := c.SubMap(nil); !errors.As(err, &verr) {
			t.Errorf("expected a validation error for an empty mapping, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
}

func TestStatementOrderIsCallOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("half", LookupOptions{}, func(c *Composer) error {
		for _, onset := range []string{"k", "th", "dh", "r"} {
			if err := c.SubLigature([]GlyphRef{G(onset + "a"), G("virama")}, onset); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	text := c.Fea()
	order := []string{
		"sub ka virama by k;",
		"sub tha virama by th;",
		"sub dha virama by dh;",
		"sub ra virama by r;",
	}
	pos := -1
	for _, stmt := range order {
		next := strings.Index(text, stmt)
		if next < 0 {
			t.Fatalf("missing statement %q:\n%s", stmt, text)
		}
		if next < pos {
			t.Errorf("statement %q emitted out of call order:\n%s", stmt, text)
		}
		pos = next
	}
}

func TestSubMultiple(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("decomp", LookupOptions{}, func(c *Composer) error {
		return c.SubMultiple("f_i", "f", "i")
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	if !strings.Contains(c.Fea(), "sub f_i by f i;") {
		t.Errorf("unexpected multiple substitution:\n%s", c.Fea())
	}
}

func TestSubMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("north", LookupOptions{}, func(c *Composer) error {
		return c.SubMap([][2]string{
			{"one", "one.north"},
			{"five", "five.north"},
			{"eight", "eight.north"},
		})
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	want := "sub [one five eight] by [one.north five.north eight.north];"
	if !strings.Contains(c.Fea(), want) {
		t.Errorf("unexpected mapped substitution:\n%s", c.Fea())
	}
}

func TestSubChainReplacement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("ctx", LookupOptions{}, func(c *Composer) error {
		return c.SubChain(
			[]GlyphRef{G("a")},
			[]ContextualInput{Input(G("b"))},
			[]GlyphRef{G("c")},
			G("d"))
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	if !strings.Contains(c.Fea(), "sub a b' c by d;") {
		t.Errorf("unexpected contextual substitution:\n%s", c.Fea())
	}
}

func TestSubChainWithLookups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	compact, err := c.Lookup("compact", LookupOptions{}, func(c *Composer) error {
		if err := c.Sub(G("kRa"), G("kRa.compact")); err != nil {
			return err
		}
		return c.Sub(G("usign"), G("usign.compact"))
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	_, err = c.Lookup("apply", LookupOptions{}, func(c *Composer) error {
		return c.SubChain(nil, []ContextualInput{
			Input(G("kRa"), compact),
			Input(G("usign"), compact),
		}, nil, nil)
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	if !strings.Contains(c.Fea(), "sub kRa' lookup compact usign' lookup compact;") {
		t.Errorf("unexpected chaining rule:\n%s", c.Fea())
	}
}

func TestSubChainMisuse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	dummy, _ := c.Lookup("dummy", LookupOptions{}, nil)
	_, err := c.Lookup("ctx", LookupOptions{}, func(c *Composer) error {
		var uerr UsageError
		// neither a replacement nor lookups
		if err := c.SubChain(nil, []ContextualInput{Input(G("a"))}, nil, nil); !errors.As(err, &uerr) {
			t.Errorf("expected a usage error for a chain rule with no effect, got %v", err)
		}
		// both a replacement and lookups
		err := c.SubChain(nil, []ContextualInput{Input(G("a"), dummy)}, nil, G("b"))
		if !errors.As(err, &uerr) {
			t.Errorf("expected a usage error for mixing replacement and lookups, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
}

func TestIgnoreSub(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	_, err := c.Lookup("pres", LookupOptions{}, func(c *Composer) error {
		return c.IgnoreSub([]GlyphRef{G("k")}, []GlyphRef{G("kRa")}, nil)
	})
	if err != nil {
		t.Fatalf("composition failed: %v", err)
	}
	if !strings.Contains(c.Fea(), "ignore sub k kRa';") {
		t.Errorf("unexpected ignore rule:\n%s", c.Fea())
	}
}

func TestTableBlockEscapeHatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typotheque.fea")
	defer teardown()
	//
	c := New()
	table := &ast.TableBlock{Tag: ast.T("BASE")}
	table.Statements = append(table.Statements,
		&ast.Comment{Text: "HorizAxis.BaseTagList ideo;"})
	c.Append(table)
	text := c.Fea()
	if !strings.Contains(text, "table BASE {") || !strings.Contains(text, "} BASE;") {
		t.Errorf("raw table block was not emitted:\n%s", text)
	}
}
