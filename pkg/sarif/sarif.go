// Package sarif renders batch-run diagnostics as a SARIF 2.1.0 report for
// code-review and CI integrations.
package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/casebreak/casebreak/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI   = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version     = "2.1.0"
	ToolName    = "casebreak"
	ToolVersion = "0.1.0"
)

// Reporting rule IDs emitted by the tool.
const (
	RuleMisplacedDirective = "misplaced-directive"
	RuleUnbracedSwitch     = "unbraced-switch-body"
	RuleInjectedBreaks     = "injected-breaks"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one reporting rule
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single reported item
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules: []Rule{
							{
								ID:   RuleMisplacedDirective,
								Name: "MisplacedDirective",
								ShortDescription: ShortDescription{
									Text: "fall_through directive not immediately followed by a switch statement",
								},
							},
							{
								ID:   RuleUnbracedSwitch,
								Name: "UnbracedSwitchBody",
								ShortDescription: ShortDescription{
									Text: "governed switch body is not a compound statement",
								},
							},
							{
								ID:   RuleInjectedBreaks,
								Name: "InjectedBreaks",
								ShortDescription: ShortDescription{
									Text: "synthetic break statements injected into a fall_through(false) switch",
								},
							},
						},
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddFileResult adds one translation unit's outcome to the report:
// a note for injected breaks plus a warning per diagnostic.
func (r *Report) AddFileResult(res *types.FileResult) {
	uri := formatFileURI(res.Path)

	if res.Injections > 0 {
		r.Runs[0].Results = append(r.Runs[0].Results, Result{
			RuleID: RuleInjectedBreaks,
			Level:  "note",
			Message: Message{
				Text: fmt.Sprintf("injected %d break statement(s)", res.Injections),
			},
			Locations: []Location{{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{URI: uri},
				},
			}},
		})
	}

	for _, d := range res.Diagnostics {
		r.Runs[0].Results = append(r.Runs[0].Results, Result{
			RuleID: ruleIDFor(d.Kind),
			Level:  "warning",
			Message: Message{
				Text: d.Message,
			},
			Locations: []Location{{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{URI: uri},
					Region: &Region{
						StartLine:   d.Loc.Source.Start.Line,
						StartColumn: d.Loc.Source.Start.Column,
						EndLine:     d.Loc.Source.End.Line,
						EndColumn:   d.Loc.Source.End.Column,
					},
				},
			}},
		})
	}
}

func ruleIDFor(kind types.DiagnosticKind) string {
	switch kind {
	case types.DiagMisplacedDirective:
		return RuleMisplacedDirective
	case types.DiagUnbracedSwitchBody:
		return RuleUnbracedSwitch
	default:
		return RuleMisplacedDirective
	}
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
