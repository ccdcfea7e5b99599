package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cslayout/internal/version"
)

// errFindings makes the process exit with status 1 without printing anything
// else: the findings were already reported.
var errFindings = errors.New("layout violations found")

var (
	setupOnce     sync.Once
	stopProfiling = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "cslayout",
	Short:         "Blank-line and alignment checker for C# sources",
	Long:          `cslayout reports and fixes blank-line placement and token alignment in C# code`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// setupRoot registers subcommands and persistent flags once.
func setupRoot() {
	setupOnce.Do(func() {
		// Устанавливаем версию для автоматического флага --version
		rootCmd.Version = version.Version

		rootCmd.AddCommand(checkCmd)
		rootCmd.AddCommand(fixCmd)
		rootCmd.AddCommand(rulesCmd)
		rootCmd.AddCommand(tokenizeCmd)
		rootCmd.AddCommand(versionCmd)

		// Глобальные флаги
		flags := rootCmd.PersistentFlags()
		flags.String("config", "", "configuration file (default: cslayout.toml or .cslayout.yaml found upwards)")
		flags.String("color", "auto", "colorize output (auto|on|off)")
		flags.String("format", "pretty", "report format (pretty|short|json|sarif)")
		flags.String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
		flags.Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
		flags.Int("max-diagnostics", 100, "maximum number of reports per file (0 = unlimited)")
		flags.Bool("timings", false, "show timing information")
		flags.Bool("no-cache", false, "do not read or write the result cache")
		flags.Bool("clear-cache", false, "drop every cached result before the run")
		flags.String("ui", "auto", "progress view for directories (auto|on|off)")
		flags.String("trace", "", "trace output file (- for stderr)")
		flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
		flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
		flags.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")
		flags.Duration("trace-heartbeat", 0, "heartbeat interval (0 = disabled)")
		flags.String("cpu-profile", "", "write a CPU profile to file")
		flags.String("mem-profile", "", "write a heap profile to file on exit")
		flags.String("runtime-trace", "", "write a Go runtime trace to file")

		// профилирование охватывает всю команду, main останавливает его
		rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
			stop, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			stopProfiling = stop
			return nil
		}
	})
}

// main executes the root command. Findings exit with 1, every other error
// with 2.
func main() {
	setupRoot()
	err := rootCmd.Execute()
	stopProfiling()
	if err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "cslayout: %v\n", err)
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(f)
	}
}
