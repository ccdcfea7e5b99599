package main

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"cslayout/internal/rules"
	"cslayout/internal/version"
)

const versionTagline = "one blank line at a time"

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	Rules      int    `json:"rules"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func init() {
	f := versionCmd.Flags()
	f.Bool("hash", false, "include git commit hash")
	f.Bool("message", false, "include git commit message")
	f.Bool("date", false, "include build timestamp")
	f.Bool("full", false, "show all recorded build metadata")
	f.String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show cslayout build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return err
	}
	wanted := func(name string) bool {
		on, _ := flags.GetBool(name)
		return on || full
	}

	payload := versionPayload{
		Tool:    "cslayout",
		Version: orDefault(version.Version, "dev"),
		Tagline: versionTagline,
		Rules:   len(rules.Catalog()),
	}
	var details []string
	add := func(flag, label, value string, dst *string) {
		if !wanted(flag) {
			return
		}
		*dst = orDefault(value, "unknown")
		details = append(details, fmt.Sprintf("%-8s %s", label+":", *dst))
	}
	add("hash", "commit", version.GitCommit, &payload.GitCommit)
	add("message", "message", version.GitMessage, &payload.GitMessage)
	add("date", "built", version.BuildDate, &payload.BuildDate)

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		fmt.Fprintf(out, "cslayout %s: %s\n", version.Colored(payload.Version), versionTagline)
		for _, line := range details {
			fmt.Fprintln(out, line)
		}
		if len(details) == 0 {
			fmt.Fprintln(out, "set --hash, --message, --date or --full for build details")
		}
		return nil
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
