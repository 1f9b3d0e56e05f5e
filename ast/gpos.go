package ast

import "fmt"

// ValueRecord holds the placement and advance adjustments of a GPOS rule,
// in font design units.
type ValueRecord struct {
	XPlacement int16
	YPlacement int16
	XAdvance   int16
	YAdvance   int16
}

// Fea renders the record in FEA value-record syntax. A record that only
// adjusts the horizontal advance uses the short form (a bare number); any
// other combination uses the full `<xp yp xa ya>` form.
func (v ValueRecord) Fea() string {
	if v.XPlacement == 0 && v.YPlacement == 0 && v.YAdvance == 0 {
		return fmt.Sprintf("%d", v.XAdvance)
	}
	return fmt.Sprintf("<%d %d %d %d>", v.XPlacement, v.YPlacement, v.XAdvance, v.YAdvance)
}

// SinglePosStatement is a GPOS type 1 rule adjusting a single glyph or class.
type SinglePosStatement struct {
	Glyph GlyphRef
	Value ValueRecord
}

func (p *SinglePosStatement) Fea(indent string) string {
	return indent + "pos " + p.Glyph.Fea("") + " " + p.Value.Fea() + ";"
}
