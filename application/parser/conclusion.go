package parser

import "strings"

// Conclusion is the two-part output of the finalization prompt.
type Conclusion struct {
	Decision   string
	Reflection string
}

// fallbackReflection is used when the response did not follow the labeled
// two-section convention; the whole response then becomes the decision.
const fallbackReflection = "This recommendation reflects the considerations you explored along the way."

// ParseConclusion splits a finalization response into its labeled sections.
// The convention is two sections introduced by "RECOMMENDATION:" and
// "REFLECTION:" (case-insensitive, each on its own line or inline). When
// the split fails the entire response becomes the decision and a generic
// reflection is substituted; finalization never fails on formatting.
func ParseConclusion(raw string) Conclusion {
	var decision, reflection []string
	section := ""

	for _, line := range splitLines(raw) {
		if rest, ok := labeledLine(line, "recommendation:"); ok {
			section = "decision"
			if rest != "" {
				decision = append(decision, rest)
			}
			continue
		}
		if rest, ok := labeledLine(line, "reflection:"); ok {
			section = "reflection"
			if rest != "" {
				reflection = append(reflection, rest)
			}
			continue
		}
		switch section {
		case "decision":
			decision = append(decision, line)
		case "reflection":
			reflection = append(reflection, line)
		}
	}

	if len(decision) == 0 {
		return Conclusion{
			Decision:   strings.TrimSpace(raw),
			Reflection: fallbackReflection,
		}
	}
	c := Conclusion{
		Decision:   strings.Join(decision, "\n"),
		Reflection: strings.Join(reflection, "\n"),
	}
	if c.Reflection == "" {
		c.Reflection = fallbackReflection
	}
	return c
}

func labeledLine(line, label string) (string, bool) {
	if len(line) < len(label) {
		return "", false
	}
	if !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	return strings.TrimSpace(line[len(label):]), true
}
