package config

import (
	"bytes"
	"fmt"
)

// Header is written at the top of generated configuration files.
const Header = `# tokenedit configuration
# Patterns are listed in precedence order: earlier patterns win ties.`

// GenerateTemplate renders the default configuration as a commented YAML
// file, suitable for 'tokenedit init'.
func GenerateTemplate() ([]byte, error) {
	body, err := NewConfig().ToYAMLWithHeader(Header)
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(body)
	buf.WriteString(`
# Other pattern kinds:
#
#   - key: code
#     kind: markdown
#     kinds: [code_span, strong]
#
#   - key: comment
#     kind: lexer
#     language: auto
#     categories: [comment]
`)

	return buf.Bytes(), nil
}
