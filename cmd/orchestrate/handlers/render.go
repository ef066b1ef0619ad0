package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/routerlab/orchestrate/internal/fleet"
)

var (
	stateColorReady  = lipgloss.Color("#22c55e")
	stateColorFailed = lipgloss.Color("#ef4444")
	stateColorOther  = lipgloss.Color("#6b7280")

	headerStyle = lipgloss.NewStyle().Bold(true)
	readyStyle  = lipgloss.NewStyle().Foreground(stateColorReady)
	failedStyle = lipgloss.NewStyle().Foreground(stateColorFailed)
	dimStyle    = lipgloss.NewStyle().Foreground(stateColorOther)
)

// printReport writes the fleet snapshot to stdout in the requested
// format.
func printReport(entries []fleet.Entry, format string) error {
	switch format {
	case "", "table":
		fmt.Print(renderTable(entries, isTerminal()))
		return nil
	case "yaml":
		content, err := yaml.Marshal(map[string][]nodeRecord{"nodes": recordsFromEntries(entries)})
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Print(string(content))
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table or yaml)", format)
	}
}

// renderTable produces the per-node table. Styling is skipped when
// stdout is not a terminal.
func renderTable(entries []fleet.Entry, styled bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%-4s %-16s %-16s %-12s %s", "ID", "HOSTNAME", "ADDRESS", "STATE", "ERROR")
	if styled {
		header = headerStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteByte('\n')

	for _, entry := range entries {
		line := fmt.Sprintf("%-4d %-16s %-16s %-12s %s",
			entry.Spec.ID, entry.Spec.Hostname, entry.Spec.Address, entry.State, entry.Err)
		if styled {
			switch entry.State {
			case fleet.StateReady:
				line = readyStyle.Render(line)
			case fleet.StateFailed:
				line = failedStyle.Render(line)
			default:
				line = dimStyle.Render(line)
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String()
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
