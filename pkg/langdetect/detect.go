// Package langdetect guesses the programming language of a text buffer so a
// lexer-based matcher can pick a chroma lexer when configured with "auto".
// It uses go-enry for shebang, filename, and classifier detection.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is returned when no language can be detected with confidence.
// It names chroma's plain text lexer.
const Text = "text"

// classifierCandidates limits the classifier to languages commonly pasted
// into chat and note buffers.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown",
}

// Detect returns a lowercase lexer name for content, or Text.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByMarker(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Text
}

// DetectFile is like Detect but lets the filename (extension, well-known
// names) decide first.
func DetectFile(filename string, content []byte) string {
	if filename != "" {
		if lang, safe := enry.GetLanguageByFilename(filename); safe {
			return normalize(lang)
		}
		if lang, safe := enry.GetLanguageByExtension(filename); safe {
			return normalize(lang)
		}
	}
	return Detect(content)
}

// detectByMarker catches snippets too short for the classifier but carrying
// an unmistakable leading marker.
func detectByMarker(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	upper := strings.ToUpper(string(trimmed))

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return "go"
	case bytes.HasPrefix(trimmed, []byte("def ")) && bytes.Contains(trimmed, []byte("):")):
		return "python"
	case bytes.Contains(trimmed, []byte("fn main()")), bytes.Contains(trimmed, []byte("println!")):
		return "rust"
	case strings.HasPrefix(upper, "SELECT "), strings.HasPrefix(upper, "INSERT "),
		strings.HasPrefix(upper, "UPDATE "), strings.HasPrefix(upper, "CREATE "):
		return "sql"
	case (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)):
		return "json"
	case bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")),
		bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<html")):
		return "html"
	}
	return ""
}

// normalize converts go-enry language names to chroma lexer names.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	case "":
		return Text
	}
	return strings.ToLower(lang)
}
