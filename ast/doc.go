/*
Package ast models OpenType feature-file (FEA) source text as a syntax tree.

The package mirrors the statement inventory of the Adobe FEA specification
(https://adobe-type-tools.github.io/afdko/OpenTypeFeatureFileSpecification.html)
as far as the composer needs it: language-system declarations, glyph class
definitions, feature and lookup blocks, and GSUB/GPOS rule statements.
Every node implements [Element] and knows how to serialize itself to
canonical FEA text via Fea. Serialization is deterministic; serializing an
unchanged tree twice yields byte-identical output.

Package ast does not parse FEA text and does not compile OpenType tables.
It is a write-only object model, meant to be driven by the composer in the
root package or used directly for statements the composer has no builder
for (e.g. raw table blocks).

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ast

// indentShift is the canonical FEA indentation step.
const indentShift = "    "
