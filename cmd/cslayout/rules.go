package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"cslayout/internal/config"
	"cslayout/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the layout rules and whether the configuration enables them",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

type ruleInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Family   string `json:"family"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}

	infos := make([]ruleInfo, 0, len(rules.Catalog()))
	for _, r := range rules.Catalog() {
		info := ruleInfo{
			ID:       r.ID(),
			Name:     r.Name(),
			Family:   r.Kind().String(),
			Priority: r.Priority(),
			Enabled:  cfg.Rules.Has(r.ID()),
			Severity: config.SeverityOff,
			Summary:  r.Summary(),
		}
		if info.Enabled {
			info.Severity = cfg.Rules.Severity(r.ID()).Label()
		}
		infos = append(infos, info)
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "FAMILY", "SEVERITY", "SUMMARY")
	for _, info := range infos {
		t.Row(info.ID, info.Name, info.Family, info.Severity, info.Summary)
	}
	_, err = fmt.Fprintln(out, t.Render())
	return err
}
