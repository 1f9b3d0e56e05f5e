package main

import (
	"strings"
	"testing"

	"github.com/typotheque/feacomposer/recipe"
)

func newShell() *shell {
	return &shell{recipe: &recipe.Recipe{LanguageSystems: map[string][]string{}}}
}

func run(t *testing.T, sh *shell, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if _, err := sh.execute(strings.Fields(line)); err != nil {
			t.Fatalf("command %q failed: %v", line, err)
		}
	}
}

func TestShellComposesFeature(t *testing.T) {
	sh := newShell()
	run(t, sh,
		"langsys latn dflt",
		"feature liga",
		"lookup",
		"sub f i by f_i",
		"end",
		"end",
	)
	text, err := sh.recipe.Compose()
	if err != nil {
		t.Fatalf("recipe did not compose: %v", err)
	}
	for _, want := range []string{
		"languagesystem latn dflt;",
		"feature liga {",
		"sub f i by f_i;",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in composed text:\n%s", want, text)
		}
	}
}

func TestShellRejectsRuleOutsideLookup(t *testing.T) {
	sh := newShell()
	if _, err := sh.execute(strings.Fields("sub f i by f_i")); err == nil {
		t.Errorf("expected an error for a rule outside any lookup")
	}
	run(t, sh, "feature liga")
	if _, err := sh.execute(strings.Fields("sub f i by f_i")); err == nil {
		t.Errorf("expected an error for a rule outside any lookup")
	}
}

func TestShellRejectsMissingByClause(t *testing.T) {
	sh := newShell()
	run(t, sh, "feature liga", "lookup")
	if _, err := sh.execute(strings.Fields("sub f i")); err == nil {
		t.Errorf("expected an error for a sub rule without a by clause")
	}
	run(t, sh, "ignore f i")
}

func TestShellEndUnderflow(t *testing.T) {
	sh := newShell()
	if _, err := sh.execute([]string{"end"}); err == nil {
		t.Errorf("expected an error for `end` with nothing open")
	}
}

func TestShellQuit(t *testing.T) {
	sh := newShell()
	quit, err := sh.execute([]string{"quit"})
	if err != nil || !quit {
		t.Errorf("expected quit to terminate the loop, got quit=%v err=%v", quit, err)
	}
}
