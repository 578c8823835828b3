package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/tokenedit/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordScript          = "script"
	wordScripts         = "scripts"
)

// FormatSummaryOneLine formats replay statistics as a single line.
// Example: "3 scripts replayed, 1 failed, 24 steps, 2 tokens deleted".
func (s *Styles) FormatSummaryOneLine(result *runner.Result) string {
	if result == nil || len(result.Scripts) == 0 {
		return s.Dim.Render("No scripts to replay") + "\n"
	}

	scriptWord := wordScripts
	if len(result.Scripts) == 1 {
		scriptWord = wordScript
	}

	parts := []string{fmt.Sprintf("%d %s replayed", len(result.Scripts), scriptWord)}
	if result.Failed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", result.Failed)))
	}
	parts = append(parts, fmt.Sprintf("%d steps", result.Stats.Steps))
	if result.Stats.Events > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d tokens deleted", result.Stats.Events)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats replay statistics as a summary block.
func (s *Styles) FormatSummary(result *runner.Result) string {
	var builder strings.Builder
	var stats runner.Stats
	var scripts, failed int
	if result != nil {
		stats, scripts, failed = result.Stats, len(result.Scripts), result.Failed
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Scripts replayed:  " + s.SummaryValue.Render(strconv.Itoa(scripts)) + "\n")
	if failed > 0 {
		builder.WriteString("  Scripts failed:    " + s.Failure.Render(strconv.Itoa(failed)) + "\n")
	}

	builder.WriteString("\n")
	builder.WriteString("  Steps:             " + s.SummaryValue.Render(strconv.Itoa(stats.Steps)) + "\n")
	builder.WriteString("    Insertions:      " + s.SummaryValue.Render(strconv.Itoa(stats.Insertions)) + "\n")
	builder.WriteString("    Deletions:       " + s.SummaryValue.Render(strconv.Itoa(stats.Deletions)) + "\n")
	builder.WriteString("    Rewrites:        " + s.SummaryValue.Render(strconv.Itoa(stats.Rewrites)) + "\n")
	builder.WriteString("  Tokens deleted:    " + s.SummaryValue.Render(strconv.Itoa(stats.Events)) + "\n")

	builder.WriteString("\n")
	if failed > 0 {
		builder.WriteString(s.Failure.Render("Replay failed"))
	} else {
		builder.WriteString(s.Success.Render("Replay passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// FormatScriptHeader formats a script header for grouped output.
func (s *Styles) FormatScriptHeader(path, name string) string {
	header := s.FilePath.Render(path)
	if name != "" {
		header += s.Dim.Render(" (" + name + ")")
	}
	return header
}

// FormatEvent formats one token deletion.
func (s *Styles) FormatEvent(ev runner.Event) string {
	location := s.Location.Render(fmt.Sprintf("step %d  %d:%d", ev.Step, ev.Start, ev.End))
	line := fmt.Sprintf("  %s  %s  %s", location, s.Key.Render(ev.Key), s.Removed.Render(strconv.Quote(ev.RemovedText)))
	if ev.ID != "" {
		line += "  " + s.ID.Render("id="+ev.ID)
	}
	return line + "\n"
}
