/*
feacli is an interactive shell for composing OpenType feature files.

Commands build up a composition recipe; `show` compiles it through the
composer and prints the resulting FEA text. A YAML recipe file may be
compiled non-interactively with the -recipe flag.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/typotheque/feacomposer/recipe"
)

// tracer traces with key 'typotheque.fea'
func tracer() tracing.Trace {
	return tracing.Select("typotheque.fea")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.typotheque.fea": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	recipefile := flag.String("recipe", "", "Compile a YAML recipe file and exit")
	outfile := flag.String("out", "", "Write FEA output to file instead of stdout")
	flag.Parse()
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}

	if *recipefile != "" {
		if err := compileRecipeFile(*recipefile, *outfile); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(2)
		}
		return
	}

	pterm.Info.Println("Welcome to the feature-file composer CLI")
	pterm.Info.Println("Quit with <ctrl>D")
	repl, err := readline.New("fea > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	sh := &shell{repl: repl, recipe: &recipe.Recipe{LanguageSystems: map[string][]string{}}}
	sh.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// compileRecipeFile compiles a YAML recipe to FEA text in one shot.
func compileRecipeFile(path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r, err := recipe.Load(data)
	if err != nil {
		return err
	}
	text, err := r.Compose()
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(out, []byte(text), 0644)
}

// shell is our interpreter object. Commands mutate the recipe; `show`
// compiles it through the composer.
type shell struct {
	repl   *readline.Instance
	recipe *recipe.Recipe

	// a feature is "open" until `end`, a lookup inside it likewise; the
	// open blocks are always the tail elements of the recipe slices
	openFeature bool
	openLookup  bool
}

func (sh *shell) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( features=%d", len(sh.recipe.Features)))
	if f := sh.currentFeature(); f != nil {
		sb.WriteString(fmt.Sprintf(" -> feature %s", f.Tag))
		if lk := sh.currentLookup(); lk != nil {
			name := lk.Name
			if name == "" {
				name = "<anonymous>"
			}
			sb.WriteString(" -> lookup " + name)
		}
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (sh *shell) REPL() {
	for {
		pterm.Println(sh.String())
		line, err := sh.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := sh.execute(strings.Fields(line))
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (sh *shell) currentFeature() *recipe.Feature {
	if !sh.openFeature || len(sh.recipe.Features) == 0 {
		return nil
	}
	return &sh.recipe.Features[len(sh.recipe.Features)-1]
}

func (sh *shell) currentLookup() *recipe.Lookup {
	f := sh.currentFeature()
	if !sh.openLookup || f == nil || len(f.Lookups) == 0 {
		return nil
	}
	return &f.Lookups[len(f.Lookups)-1]
}

func (sh *shell) execute(words []string) (bool, error) {
	switch words[0] {
	case "quit":
		return true, nil
	case "help":
		printHelp()
		return false, nil
	case "langsys":
		if len(words) != 3 {
			return false, errors.New("usage: langsys <script> <language>")
		}
		script, lang := words[1], words[2]
		sh.recipe.LanguageSystems[script] = append(sh.recipe.LanguageSystems[script], lang)
		return false, nil
	case "class":
		if len(words) < 3 {
			return false, errors.New("usage: class <name> <glyph> ...")
		}
		sh.recipe.Classes = append(sh.recipe.Classes, recipe.Class{
			Name:   words[1],
			Glyphs: words[2:],
		})
		return false, nil
	case "feature":
		if len(words) != 2 {
			return false, errors.New("usage: feature <tag>")
		}
		if sh.openFeature {
			return false, errors.New("close the current feature with `end` first")
		}
		sh.recipe.Features = append(sh.recipe.Features, recipe.Feature{Tag: words[1]})
		sh.openFeature = true
		return false, nil
	case "lookup":
		f := sh.currentFeature()
		if f == nil {
			return false, errors.New("open a feature first")
		}
		if sh.openLookup {
			return false, errors.New("close the current lookup with `end` first")
		}
		lk := recipe.Lookup{}
		if len(words) > 1 {
			lk.Name = words[1]
		}
		f.Lookups = append(f.Lookups, lk)
		sh.openLookup = true
		return false, nil
	case "flags":
		lk := sh.currentLookup()
		if lk == nil {
			return false, errors.New("open a lookup first")
		}
		lk.Flags = append(lk.Flags, words[1:]...)
		return false, nil
	case "sub":
		return false, sh.addRule(words[1:], false)
	case "ignore":
		return false, sh.addRule(words[1:], true)
	case "end":
		switch {
		case sh.openLookup:
			sh.openLookup = false
		case sh.openFeature:
			sh.openFeature = false
		default:
			return false, errors.New("nothing to close")
		}
		return false, nil
	case "show":
		text, err := sh.recipe.Compose()
		if err != nil {
			return false, err
		}
		pterm.Println(text)
		return false, nil
	case "write":
		if len(words) != 2 {
			return false, errors.New("usage: write <file>")
		}
		text, err := sh.recipe.Compose()
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(words[1], []byte(text), 0644); err != nil {
			return false, err
		}
		pterm.Info.Println("wrote " + words[1])
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q; try `help`", words[0])
}

// addRule parses `sub <glyphs...> by <glyphs...>` or `ignore <glyphs...>`
// into a recipe rule appended to the current lookup.
func (sh *shell) addRule(words []string, ignore bool) error {
	lk := sh.currentLookup()
	if lk == nil {
		return errors.New("open a lookup first")
	}
	rule := recipe.Rule{Ignore: ignore}
	byIndex := -1
	for i, w := range words {
		if w == "by" {
			byIndex = i
			break
		}
	}
	if byIndex < 0 {
		rule.Sub = words
	} else {
		rule.Sub = words[:byIndex]
		rule.By = words[byIndex+1:]
	}
	if len(rule.Sub) == 0 {
		return errors.New("rule needs at least one input glyph")
	}
	if ignore && len(rule.By) > 0 {
		return errors.New("an ignore rule cannot have a replacement")
	}
	if !ignore && len(rule.By) == 0 {
		return errors.New("missing `by` clause")
	}
	lk.Rules = append(lk.Rules, rule)
	return nil
}

func printHelp() {
	pterm.Println(strings.Join([]string{
		"langsys <script> <language>      declare a language system",
		"class <name> <glyph> ...         define a named glyph class (@name)",
		"feature <tag>                    open a feature block",
		"lookup [name]                    open a lookup inside the feature",
		"flags <flag> ...                 set lookup flags (e.g. IgnoreMarks)",
		"sub <glyphs...> by <glyphs...>   add a substitution rule",
		"ignore <glyphs...>               add an ignore rule",
		"end                              close the innermost open block",
		"show                             compile and print the feature file",
		"write <file>                     compile and write the feature file",
		"quit                             leave (also <ctrl>D)",
	}, "\n"))
}
