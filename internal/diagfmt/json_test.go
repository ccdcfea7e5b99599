package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"cslayout/internal/diag"
	"cslayout/internal/source"
	"cslayout/internal/token"
)

func TestJSONBasic(t *testing.T) {
	bag, fs := layoutBag(t)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output Report
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "warning" || d.Code != "LY1003" {
		t.Errorf("unexpected header %s %s", d.Severity, d.Code)
	}
	if d.Location.File != "C.cs" || d.Location.StartLine != 6 || d.Location.StartCol != 9 {
		t.Errorf("unexpected location %+v", d.Location)
	}
	if d.Fix == nil || d.Fix.NewText != "\n" || d.Fix.Priority != 110 {
		t.Fatalf("unexpected fix %+v", d.Fix)
	}
	if len(d.Fix.AfterLines) != 2 || d.Fix.AfterLines[0] != "" {
		t.Errorf("unexpected preview %q", d.Fix.AfterLines)
	}
}

func TestJSONMaxAndOmittedFields(t *testing.T) {
	bag, fs := layoutBag(t)
	bag.Add(diag.Violation{RuleID: "LY1005", Severity: diag.SevInfo, Message: "second", Primary: bag.Items()[0].Primary})

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Max must cap the output, got %d", out.Count)
	}
	if out.Diagnostics[0].Fix != nil {
		t.Fatalf("fix must be omitted without IncludeFixes")
	}
	if out.Diagnostics[0].Location.StartLine != 0 {
		t.Fatalf("positions must be omitted without IncludePositions")
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "start_line") || strings.Contains(buf.String(), "\"fix\"") {
		t.Fatalf("omitempty fields leaked:\n%s", buf.String())
	}
}

func TestSarif(t *testing.T) {
	bag, fs := layoutBag(t)
	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolName:    "cslayout",
		ToolVersion: "0.1.0",
		Rules:       []SarifRule{{ID: "LY1003", Name: "try-separation", Summary: "blank line around try"}},
	}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log %+v", log)
	}
	run := log.Runs[0]
	if len(run.Results) != 1 || run.Results[0].Level != "warning" {
		t.Fatalf("unexpected results %+v", run.Results)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 6 || region.StartColumn != 9 || region.EndColumn != 12 {
		t.Fatalf("unexpected region %+v", region)
	}
	if uri := run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "src/C.cs" {
		t.Fatalf("unexpected uri %q", uri)
	}
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].Name != "try-separation" {
		t.Fatalf("rule descriptors missing")
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.cs", []byte("x; // c\n"))
	toks := []token.Token{
		{Kind: token.Ident, Text: "x", Span: source.Span{File: id, Start: 0, End: 1}},
		{Kind: token.Semicolon, Text: ";", Span: source.Span{File: id, Start: 1, End: 2},
			Trailing: []token.Trivia{{Kind: token.TriviaSpace}, {Kind: token.TriviaLineComment}, {Kind: token.TriviaNewline}}},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 8, End: 8}},
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(trailing: Space, LineComment, Newline)") {
		t.Fatalf("trailing trivia missing:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[2].Kind != "EOF" || out[0].Text != "x" {
		t.Fatalf("unexpected tokens %+v", out)
	}
}
