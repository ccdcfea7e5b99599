package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cslayout/internal/diag"
	"cslayout/internal/driver"
	"cslayout/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.cs|directory>...",
	Short: "Rewrite files until the enabled rules report nothing fixable",
	Long:  "Fix scans, applies every non-conflicting edit and rescans until nothing changes. Violations without a safe edit are printed and make the command exit with 1.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing files")
	fixCmd.Flags().StringSlice("id", nil, "fix only these rules (IDs or names, repeatable)")
	fixCmd.Flags().Int("max-passes", 0, "maximum scan/fix passes per file (0 = default)")
}

func runFix(cmd *cobra.Command, args []string) error {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	only, err := cmd.Flags().GetStringSlice("id")
	if err != nil {
		return err
	}
	maxPasses, err := cmd.Flags().GetInt("max-passes")
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	base, err := driverOptions(cmd, args)
	if err != nil {
		return err
	}
	mode, err := uiFlag(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ExpandPaths(args, base.Config)
	if err != nil {
		return err
	}

	opts := driver.FixOptions{Options: base, DryRun: dryRun, Only: only, MaxPasses: maxPasses}
	ctx := cmd.Context()
	type fixRun struct {
		fs      *source.FileSet
		results []driver.FixResult
	}
	run := func(sink driver.ProgressSink) (fixRun, error) {
		o := opts
		o.Progress = sink
		fs, results, err := driver.Fix(ctx, args, o)
		return fixRun{fs: fs, results: results}, err
	}

	var res fixRun
	if shouldUseTUI(mode, len(files)) {
		res, err = runWithUI("fix", files, run)
	} else {
		res, err = run(nil)
	}
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	return reportFixes(cmd, res.fs, res.results, dryRun)
}

func reportFixes(cmd *cobra.Command, fs *source.FileSet, results []driver.FixResult, dryRun bool) error {
	out := cmd.OutOrStdout()
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}

	var failed []error
	bags := make([]*diag.Bag, 0, len(results))
	remaining := 0
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		if r.Changed() {
			fmt.Fprintf(out, "%s %s (%d edits in %d passes)\n", verb, r.Path, len(r.Result.Applied), r.Result.Passes)
			if dryRun {
				for _, a := range r.Result.Applied {
					fmt.Fprintf(out, "  %s: %s\n", a.RuleID, a.Title)
				}
			}
		}
		for _, s := range r.Result.Skipped {
			fmt.Fprintf(out, "  skipped %s %s: %s\n", s.RuleID, s.Title, s.Reason)
		}
		if len(r.Result.Remaining) > 0 {
			bag := diag.NewBag(0)
			bag.AddAll(r.Result.Remaining)
			bags = append(bags, bag)
			remaining += len(r.Result.Remaining)
		}
	}
	if remaining > 0 {
		if err := printReports(cmd, fs, bags, false); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return errors.Join(failed...)
	}
	if remaining > 0 {
		return errFindings
	}
	return nil
}
