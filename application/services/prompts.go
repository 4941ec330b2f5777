package services

import (
	"fmt"
	"strings"

	"crossroads-backend/domain/config"
	"crossroads-backend/domain/core/entities"
)

// promptBuilder renders the prompts sent to the completion backend. All
// free text supplied by the user or the advisor profile is passed through
// verbatim; the builder only frames it.
type promptBuilder struct {
	cfg config.DomainConfig
}

func newPromptBuilder(cfg config.DomainConfig) *promptBuilder {
	return &promptBuilder{cfg: cfg}
}

// SystemPrompt builds the system message for tree generation calls. The
// personality hint and advisor persona are both optional.
func (p *promptBuilder) SystemPrompt(personality, persona string) string {
	var b strings.Builder
	b.WriteString("You are a thoughtful decision-making advisor. ")
	b.WriteString("The user is working through a decision one step at a time. ")
	fmt.Fprintf(&b,
		"Respond with a short title on the first line, one or two sentences of consideration, and then %d to %d options the user could explore next, each on its own line prefixed with \"- \".",
		p.cfg.MinOptionsPerNode, p.cfg.MaxOptionsPerNode,
	)
	if personality != "" {
		fmt.Fprintf(&b, " Adopt this tone: %s.", personality)
	}
	if persona != "" {
		b.WriteString(" ")
		b.WriteString(persona)
	}
	return b.String()
}

// CreatePrompt builds the user message for the initial tree generation.
func (p *promptBuilder) CreatePrompt(topic, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I need to decide: %s", topic)
	if context = p.clip(context); context != "" {
		fmt.Fprintf(&b, "\n\nBackground:\n%s", context)
	}
	return b.String()
}

// AdvancePrompt builds the user message for expanding a chosen option.
func (p *promptBuilder) AdvancePrompt(topic, context string, current *entities.DecisionNode, optionText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The decision under discussion: %s\n", topic)
	if context = p.clip(context); context != "" {
		fmt.Fprintf(&b, "\nBackground:\n%s\n", context)
	}
	content := current.Content()
	fmt.Fprintf(&b, "\nWe are currently considering: %s", content.Title())
	if content.Body() != "" {
		fmt.Fprintf(&b, "\n%s", content.Body())
	}
	fmt.Fprintf(&b, "\n\nThe user chose to explore: %s\n\nContinue the exploration from that choice.", optionText)
	return b.String()
}

// ConclusionPrompt builds the user message for the final synthesis. It
// walks the path from the root to the current node so the model sees the
// whole line of reasoning.
func (p *promptBuilder) ConclusionPrompt(topic string, path []*entities.DecisionNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The decision under discussion: %s\n\nThe path explored so far:\n", topic)
	for i, node := range path {
		content := node.Content()
		fmt.Fprintf(&b, "%d. %s", i+1, content.Title())
		if content.Body() != "" {
			fmt.Fprintf(&b, " - %s", content.Body())
		}
		b.WriteString("\n")
	}
	b.WriteString("\nBased on this path, give your final advice in exactly two labeled sections:\n")
	b.WriteString("RECOMMENDATION: <the single recommended course of action>\n")
	b.WriteString("REFLECTION: <one or two sentences on how the user weighed the decision>")
	return b.String()
}

// SummaryPrompt builds the user message for the short list-view label.
func (p *promptBuilder) SummaryPrompt(root *entities.DecisionNode) string {
	content := root.Content()
	var b strings.Builder
	fmt.Fprintf(&b,
		"Summarize the following decision in a short label of at most %d characters. Respond with the label only.\n\n%s",
		p.cfg.MaxSummaryLength, content.Title(),
	)
	if content.Body() != "" {
		fmt.Fprintf(&b, "\n%s", content.Body())
	}
	return b.String()
}

// clip bounds user-supplied context so a pasted document cannot blow the
// prompt past the model's window.
func (p *promptBuilder) clip(context string) string {
	context = strings.TrimSpace(context)
	if p.cfg.MaxContextChars > 0 && len(context) > p.cfg.MaxContextChars {
		return context[:p.cfg.MaxContextChars]
	}
	return context
}
