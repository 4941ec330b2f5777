// Package parser turns the loosely formatted natural-language text returned
// by the completion service into a structured node: a title, a body, and the
// option labels. It is a pure line classifier with no I/O; malformed input
// degrades to fallbacks instead of failing, so a usable node always comes
// out.
package parser

import (
	"strings"
	"unicode"
)

// Result is a parsed completion: the pieces the engine needs to build one
// decision node. Options are plain strings in display order; the caller
// assigns ids.
type Result struct {
	Title   string
	Body    string
	Options []string
}

// DefaultFallbackOptions is substituted when the text contains no
// recognizable list, so a node is never option-less.
var DefaultFallbackOptions = []string{
	"Tell me more",
	"Explore alternatives",
	"Consider other factors",
}

// Parse classifies raw completion text into title, body, and options.
// fallbackTitle is used when no title line can be identified;
// fallbackOptions replaces an empty option list (nil means
// DefaultFallbackOptions). Parse never panics and never returns a Result
// with zero options.
func Parse(raw, fallbackTitle string, fallbackOptions []string) Result {
	if len(fallbackOptions) == 0 {
		fallbackOptions = DefaultFallbackOptions
	}

	lines := splitLines(raw)
	if len(lines) == 0 {
		return Result{
			Title:   fallbackTitle,
			Body:    "",
			Options: append([]string(nil), fallbackOptions...),
		}
	}

	title := fallbackTitle
	contentStart := 0
	if heading, ok := titleFromLine(lines[0]); ok {
		if heading != "" {
			title = heading
		}
		contentStart = 1
	} else if _, isOption := optionFromLine(lines[0]); !isOption {
		// A leading prose line doubles as the title.
		title = lines[0]
		contentStart = 1
	}

	options := make([]string, 0, 4)
	firstOptionLine := -1
	for i := contentStart; i < len(lines); i++ {
		if text, ok := optionFromLine(lines[i]); ok {
			if firstOptionLine < 0 {
				firstOptionLine = i
			}
			options = append(options, text)
		}
	}

	bodyEnd := len(lines)
	if firstOptionLine >= 0 {
		bodyEnd = firstOptionLine
	}
	body := strings.TrimSpace(strings.Join(lines[contentStart:bodyEnd], "\n"))

	if len(options) == 0 {
		options = append([]string(nil), fallbackOptions...)
	}

	return Result{Title: title, Body: body, Options: options}
}

// splitLines trims every line and drops the blank ones.
func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// titleFromLine recognizes an explicit title line: a markdown heading or a
// "Title:" label. Returns the stripped heading text.
func titleFromLine(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		stripped := strings.TrimLeft(line, "#")
		return strings.TrimSpace(stripped), true
	}
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "title:") {
		return strings.TrimSpace(line[len("title:"):]), true
	}
	return "", false
}

// optionFromLine recognizes a list item ("-", "*", "•", or "N." / "N)") and
// returns its text with the marker stripped.
func optionFromLine(line string) (string, bool) {
	for _, marker := range []string{"-", "*", "•"} {
		if strings.HasPrefix(line, marker) {
			rest := strings.TrimSpace(strings.TrimPrefix(line, marker))
			if rest == "" {
				return "", false
			}
			return rest, true
		}
	}

	// Numbered list: one or more digits followed by "." or ")".
	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		rest := strings.TrimSpace(line[i+1:])
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}
