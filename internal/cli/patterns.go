package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/tokenedit/internal/ui/pretty"
	"github.com/yaklabco/tokenedit/pkg/config"
	"github.com/yaklabco/tokenedit/pkg/span"
)

type patternsFlags struct {
	format string
	sample string
}

// patternInfo represents a pattern in JSON output.
type patternInfo struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
	Trigger string `json:"trigger,omitempty"`
	Style   string `json:"style,omitempty"`
}

func newPatternsCommand() *cobra.Command {
	flags := &patternsFlags{}

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List configured patterns",
		Long: `List the configured patterns in precedence order with their kind,
match expression, trigger character and style.

With --sample, also render the given text with the patterns applied.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatterns(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.sample, "sample", "", "text to render with the patterns")

	return cmd
}

func runPatterns(cmd *cobra.Command, flags *patternsFlags) error {
	cliCfg, err := formatOverride(cmd, flags.format)
	if err != nil {
		return err
	}
	st, err := loadSettings(cmd, cliCfg)
	if err != nil {
		return err
	}

	infos := make([]patternInfo, 0, len(st.cfg.Patterns))
	for _, p := range st.cfg.Patterns {
		infos = append(infos, describePattern(p))
	}

	out := cmd.OutOrStdout()

	if st.cfg.Format == config.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding patterns: %w", err)
		}
		return nil
	}

	styles := pretty.NewStyles(st.colorEnabled)
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Key, info.Kind, info.Trigger, info.Style, info.Detail})
	}

	table := pretty.NewTableFormatter(styles, 0)
	fmt.Fprint(out, table.FormatTable([]string{"KEY", "KIND", "TRIGGER", "STYLE", "MATCH"}, rows))

	if flags.sample != "" {
		fmt.Fprintln(out, styles.RenderSegments(span.Segments(flags.sample, st.patterns)))
	}
	return nil
}

func describePattern(p config.PatternConfig) patternInfo {
	kind := p.Kind
	if kind == "" {
		kind = config.KindRegex
	}

	var detail string
	switch kind {
	case config.KindMarkdown:
		detail = strings.Join(p.Kinds, ", ")
	case config.KindLexer:
		detail = p.Language
		if len(p.Categories) > 0 {
			detail += ": " + strings.Join(p.Categories, ", ")
		}
	default:
		detail = p.Expr
	}

	return patternInfo{
		Key:     p.Key,
		Kind:    string(kind),
		Detail:  detail,
		Trigger: p.Trigger,
		Style:   p.Style,
	}
}
