// Package casebreak rewrites C++ translation units governed by the
// fall_through(bool) directive.
//
// A switch immediately preceded by fall_through(false); gets a synthetic
// break; at the end of every case segment that does not already end in a
// control transfer (break, return, goto, continue, throw, or a call to a
// [[noreturn]] function) and is not marked [[fallthrough]];. Directives are
// removed from the output, which is otherwise byte-identical to the input
// and compilable by an unmodified downstream compiler.
//
// # Basic Usage
//
// Create an engine and transform a unit:
//
//	engine, err := casebreak.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := engine.TransformString("fall_through(false); switch(a){case 1: f(); case 2: g(); break;}")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(res.Output))
//	// switch(a){case 1: f(); break; case 2: g(); break;}
//
// Fatal structural problems (unbalanced braces, unterminated literals)
// return an error and no output; recoverable anomalies are reported in
// Result.Diagnostics and never halt the transform.
package casebreak

import (
	"fmt"
	"os"

	"github.com/casebreak/casebreak/pkg/classify"
	"github.com/casebreak/casebreak/pkg/config"
	"github.com/casebreak/casebreak/pkg/extract"
	"github.com/casebreak/casebreak/pkg/lexer"
	"github.com/casebreak/casebreak/pkg/prefilter"
	"github.com/casebreak/casebreak/pkg/rewrite"
	"github.com/casebreak/casebreak/pkg/structure"
	"github.com/casebreak/casebreak/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/casebreak/casebreak" without subpackages.
type (
	// Token is one immutable lexical unit of a translation unit.
	Token = types.Token

	// Location describes a byte and line:column range within a unit.
	Location = types.Location

	// Diagnostic is a recoverable anomaly reported during a transform.
	Diagnostic = types.Diagnostic

	// FileResult records the outcome of transforming one file.
	FileResult = types.FileResult

	// MalformedInputError is the fatal error for unbalanced input.
	MalformedInputError = types.MalformedInputError

	// UnterminatedSwitchBodyError is the fatal error for an unclosed switch body.
	UnterminatedSwitchBodyError = types.UnterminatedSwitchBodyError
)

// Engine transforms translation units. An Engine is immutable after New and
// safe for concurrent use: every transform owns its own token stream and
// threads all state through the call.
type Engine struct {
	cfg *engineConfig
	pf  *prefilter.Prefilter
}

// engineConfig holds engine configuration.
type engineConfig struct {
	directiveSpelling string
	attributeSpelling string
	noreturnFunctions []string
	usePrefilter      bool
}

// Option configures an Engine.
type Option func(*engineConfig)

// WithDirectiveSpelling renames the directive identifier (default
// "fall_through").
func WithDirectiveSpelling(name string) Option {
	return func(c *engineConfig) {
		c.directiveSpelling = name
	}
}

// WithAttributeSpelling renames the intentional-fallthrough attribute
// (default "fallthrough").
func WithAttributeSpelling(name string) Option {
	return func(c *engineConfig) {
		c.attributeSpelling = name
	}
}

// WithNoReturnFunctions adds function names (optionally qualified) whose
// calls count as case terminators, on top of the standard [[noreturn]] set
// and names declared [[noreturn]] in the unit itself.
func WithNoReturnFunctions(names ...string) Option {
	return func(c *engineConfig) {
		c.noreturnFunctions = append(c.noreturnFunctions, names...)
	}
}

// WithPrefilter enables the Aho-Corasick fast path: buffers that do not
// mention the directive spelling are passed through without tokenization.
// Intended for batch runs over large trees; note that skipped buffers are
// not structurally validated.
func WithPrefilter() Option {
	return func(c *engineConfig) {
		c.usePrefilter = true
	}
}

// FromConfig applies a loaded configuration file.
func FromConfig(cfg *config.Config) Option {
	return func(c *engineConfig) {
		if cfg.DirectiveSpelling != "" {
			c.directiveSpelling = cfg.DirectiveSpelling
		}
		if cfg.AttributeSpelling != "" {
			c.attributeSpelling = cfg.AttributeSpelling
		}
		c.noreturnFunctions = append(c.noreturnFunctions, cfg.NoReturnFunctions...)
	}
}

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{
		directiveSpelling: extract.DefaultDirectiveSpelling,
		attributeSpelling: classify.DefaultAttributeSpelling,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !isIdentifier(cfg.directiveSpelling) {
		return nil, fmt.Errorf("directive spelling %q is not an identifier", cfg.directiveSpelling)
	}
	if !isIdentifier(cfg.attributeSpelling) {
		return nil, fmt.Errorf("attribute spelling %q is not an identifier", cfg.attributeSpelling)
	}

	e := &Engine{cfg: cfg}
	if cfg.usePrefilter {
		e.pf = prefilter.New(cfg.directiveSpelling)
	}
	return e, nil
}

// Result is the outcome of one transform.
type Result struct {
	// Output is the rewritten translation unit. Equal to the input when
	// Changed is false.
	Output []byte

	// Diagnostics are recoverable anomalies in source order.
	Diagnostics []Diagnostic

	// Changed reports whether Output differs from the input.
	Changed bool

	// Injections is the number of synthetic breaks inserted.
	Injections int

	// Directives is the number of directives removed.
	Directives int
}

// FileResult converts a Result for persistence under the given path.
func (r *Result) FileResult(path string, bytesIn int64) *FileResult {
	return &types.FileResult{
		Path:        path,
		Changed:     r.Changed,
		Injections:  r.Injections,
		Directives:  r.Directives,
		BytesIn:     bytesIn,
		BytesOut:    int64(len(r.Output)),
		Diagnostics: r.Diagnostics,
	}
}

// TransformString transforms one translation unit given as a string.
func (e *Engine) TransformString(src string) (*Result, error) {
	return e.TransformBytes([]byte(src))
}

// TransformBytes transforms one translation unit. The input is tokenized by
// the bundled lexer; callers holding their own token stream should use
// TransformStream.
func (e *Engine) TransformBytes(src []byte) (*Result, error) {
	if e.pf != nil && !e.pf.Interesting(src) {
		out := make([]byte, len(src))
		copy(out, src)
		return &Result{Output: out}, nil
	}

	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return e.TransformStream(src, lexer.NewStream(toks))
}

// TransformStream transforms a unit from an externally supplied token
// stream. Token locations must carry byte offsets into src; output splicing
// is offset-based so unedited bytes are copied through exactly.
func (e *Engine) TransformStream(src []byte, s *lexer.Stream) (*Result, error) {
	info, err := structure.Scan(s)
	if err != nil {
		return nil, err
	}

	cls := classify.New(classify.Options{
		AttributeSpelling: e.cfg.attributeSpelling,
		NoReturnFunctions: e.cfg.noreturnFunctions,
	})
	cls.CollectDeclared(s)

	res, err := extract.Extract(s, info, extract.Options{
		DirectiveSpelling: e.cfg.directiveSpelling,
	})
	if err != nil {
		return nil, err
	}

	for i := range res.Regions {
		if res.Regions[i].Mode == types.ModeDisabled {
			cls.ClassifyRegion(s, info, &res.Regions[i])
		}
	}

	plan := rewrite.Build(s, res)
	return &Result{
		Output:      plan.Apply(src),
		Diagnostics: res.Diagnostics,
		Changed:     plan.Changed(),
		Injections:  plan.Injections(),
		Directives:  plan.Directives(),
	}, nil
}

// TransformFile reads and transforms a file. The file is not written back;
// callers decide what to do with Result.Output.
func (e *Engine) TransformFile(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return e.TransformBytes(content)
}

// DirectiveSpelling returns the directive identifier in effect.
func (e *Engine) DirectiveSpelling() string { return e.cfg.directiveSpelling }

// AttributeSpelling returns the fallthrough attribute identifier in effect.
func (e *Engine) AttributeSpelling() string { return e.cfg.attributeSpelling }

// PrefilterEnabled returns whether the fast path is enabled.
func (e *Engine) PrefilterEnabled() bool { return e.pf != nil }

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !alpha && (i == 0 || c < '0' || c > '9') {
			return false
		}
	}
	return true
}
