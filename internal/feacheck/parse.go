package feacheck

import (
	"fmt"
	"strings"
)

// Parse builds the block structure of FEA text. Lines ending in `{` open a
// block, lines starting with `}` close the innermost one, everything else
// (except blank lines) is recorded as a statement of the innermost block.
func Parse(text string) (*Block, error) {
	root := &Block{}
	stack := []*Block{root}
	for lineno, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		top := stack[len(stack)-1]
		switch {
		case strings.HasSuffix(line, "{"):
			child := &Block{Header: strings.TrimSpace(strings.TrimSuffix(line, "{"))}
			top.Children = append(top.Children, child)
			stack = append(stack, child)
		case strings.HasPrefix(line, "}"):
			if len(stack) == 1 {
				return nil, fmt.Errorf("line %d: unbalanced closing brace", lineno+1)
			}
			stack = stack[:len(stack)-1]
		default:
			top.Statements = append(top.Statements, line)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed block %q", stack[len(stack)-1].Header)
	}
	return root, nil
}
