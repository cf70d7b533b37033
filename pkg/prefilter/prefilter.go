// Package prefilter decides cheaply whether a buffer can contain a governed
// switch at all. Batch runs over large trees pass most files through
// untouched; an Aho-Corasick keyword scan skips tokenization for them.
package prefilter

import "github.com/cloudflare/ahocorasick"

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	matcher *ahocorasick.Matcher
}

// New creates a prefilter for the given directive spelling. A buffer is
// interesting only if it mentions the spelling; everything else is
// guaranteed untouched output.
func New(directiveSpelling string) *Prefilter {
	return &Prefilter{
		matcher: ahocorasick.NewStringMatcher([]string{directiveSpelling}),
	}
}

// Interesting reports whether content may contain a directive and therefore
// needs the full pipeline. False means the engine may emit the input
// unchanged without tokenizing it.
func (pf *Prefilter) Interesting(content []byte) bool {
	return len(pf.matcher.Match(content)) > 0
}
