// Package xmlarchive implements the bidirectional board <-> XML archive
// mapping. Export builds the document text by hand so every attribute and
// element body goes through Escape; import parses into a generic element
// tree, validates it, then rebuilds the model, reversing every escape and
// type-tag decision made at export time.
package xmlarchive

import "strings"

// escaper covers the five reserved XML characters. Ampersand handling is
// load-bearing for round-trip correctness: both replacers run in a single
// left-to-right pass, so already-escaped sequences are never double-touched.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// Escape replaces the five reserved XML characters with their entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape: Unescape(Escape(s)) == s for any s.
func Unescape(s string) string {
	return unescaper.Replace(s)
}
