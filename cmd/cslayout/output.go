package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cslayout/internal/diag"
	"cslayout/internal/diagfmt"
	"cslayout/internal/observ"
	"cslayout/internal/rules"
	"cslayout/internal/source"
	"cslayout/internal/version"
)

type reportFormat string

const (
	formatPretty reportFormat = "pretty"
	formatShort  reportFormat = "short"
	formatJSON   reportFormat = "json"
	formatSARIF  reportFormat = "sarif"
)

func readFormat(cmd *cobra.Command) (reportFormat, error) {
	value, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return "", err
	}
	switch f := reportFormat(strings.ToLower(value)); f {
	case formatPretty, formatShort, formatJSON, formatSARIF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", value)
}

// printReports writes the merged reports of a run to stdout. Timing reports
// are left out; printTimings shows them.
func printReports(cmd *cobra.Command, fs *source.FileSet, bags []*diag.Bag, showFixes bool) error {
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}
	pathValue, _ := cmd.Root().PersistentFlags().GetString("path-mode")
	pathMode, ok := diagfmt.ParsePathMode(pathValue)
	if !ok {
		return fmt.Errorf("unknown path mode %q", pathValue)
	}

	merged := diag.NewBag(0)
	for _, b := range bags {
		merged.Merge(b)
	}
	merged.Filter(func(v *diag.Violation) bool { return v.RuleID != diag.ObsTimings.ID() })
	merged.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case formatShort:
		if s := diag.FormatShort(merged.Items(), fs, false); s != "" {
			fmt.Fprintln(out, s)
		}
		return nil
	case formatJSON:
		return diagfmt.JSON(out, merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
		})
	case formatSARIF:
		meta := diagfmt.SarifRunMeta{
			ToolName:       "cslayout",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		for _, r := range rules.Catalog() {
			meta.Rules = append(meta.Rules, diagfmt.SarifRule{ID: r.ID(), Name: r.Name(), Summary: r.Summary()})
		}
		return diagfmt.Sarif(out, merged, fs, meta)
	default:
		diagfmt.Pretty(out, merged, fs, diagfmt.PrettyOpts{
			Color:       useColor(cmd, os.Stdout),
			Context:     0,
			PathMode:    pathMode,
			ShowNotes:   true,
			ShowFixes:   showFixes,
			ShowPreview: showFixes,
		})
		return nil
	}
}

func printTimings(cmd *cobra.Command, reports []observ.Report) {
	enabled, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if !enabled {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), observ.Aggregate(reports).Summary())
}
