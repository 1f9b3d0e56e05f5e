// Package feacheck provides a normalized structural model of FEA text for
// tests. It only matches block braces and statement lines; it is not a FEA
// parser and deliberately knows nothing about rule grammar.
package feacheck

// Block is one brace-delimited block of FEA text, or the document root.
// Header is the text before the opening brace (e.g. "feature liga",
// "lookup _1"), empty for the root.
type Block struct {
	Header     string
	Statements []string // non-block statement lines, trimmed, in order
	Children   []*Block // nested blocks, in order
}

// Child returns the i-th nested block, or nil when out of range.
func (b *Block) Child(i int) *Block {
	if b == nil || i < 0 || i >= len(b.Children) {
		return nil
	}
	return b.Children[i]
}

// Headers lists the headers of all nested blocks, in order.
func (b *Block) Headers() []string {
	headers := make([]string, len(b.Children))
	for i, c := range b.Children {
		headers[i] = c.Header
	}
	return headers
}

// HasStatement reports whether the block contains the exact statement line.
func (b *Block) HasStatement(line string) bool {
	for _, s := range b.Statements {
		if s == line {
			return true
		}
	}
	return false
}
