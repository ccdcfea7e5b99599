package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cslayout/internal/diag"
	"cslayout/internal/driver"
	"cslayout/internal/observ"
	"cslayout/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.cs|directory>...",
	Short: "Report blank-line and alignment violations",
	Long:  "Check parses every file, runs the enabled layout rules and prints what they report. It exits with 1 when anything was reported.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("show-fixes", false, "print the proposed edit under each violation")
}

func runCheck(cmd *cobra.Command, args []string) error {
	showFixes, err := cmd.Flags().GetBool("show-fixes")
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := driverOptions(cmd, args)
	if err != nil {
		return err
	}
	mode, err := uiFlag(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ExpandPaths(args, opts.Config)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	type checkRun struct {
		fs      *source.FileSet
		results []driver.FileResult
	}
	run := func(sink driver.ProgressSink) (checkRun, error) {
		o := opts
		o.Progress = sink
		fs, results, err := driver.Check(ctx, args, o)
		return checkRun{fs: fs, results: results}, err
	}

	var res checkRun
	if shouldUseTUI(mode, len(files)) {
		res, err = runWithUI("check", files, run)
	} else {
		res, err = run(nil)
	}
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	bags := make([]*diag.Bag, 0, len(res.results))
	var timings []observ.Report
	findings := 0
	for i := range res.results {
		r := &res.results[i]
		bags = append(bags, r.Bag)
		findings += r.Findings()
		if r.Timing != nil {
			timings = append(timings, *r.Timing)
		}
	}
	if err := printReports(cmd, res.fs, bags, showFixes); err != nil {
		return err
	}
	printTimings(cmd, timings)
	if findings > 0 {
		return errFindings
	}
	return nil
}
