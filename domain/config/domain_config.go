package config

import "fmt"

// DomainConfig holds the tunable business rules of the decision engine.
// The thresholds here are policy with reasonable defaults, not invariants:
// callers may swap them per deployment without touching the engine.
type DomainConfig struct {
	// Conclusion policy: a tree is eligible for a final synthesis once it
	// has accumulated this many nodes. A forced conclusion bypasses it.
	ConclusionThreshold int

	// Option bounds requested from the completion service per node.
	MinOptionsPerNode int
	MaxOptionsPerNode int

	// Node constraints
	MaxTitleLength   int
	MaxContentLength int

	// Attached context (free text, possibly file content) is truncated to
	// this many characters before being embedded in prompts.
	MaxContextChars int

	// Generic options substituted when the completion service returns no
	// recognizable list, so a node is never option-less.
	FallbackOptions []string

	// Summary label length for list views.
	MaxSummaryLength int
}

// DefaultDomainConfig returns the default domain configuration.
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		ConclusionThreshold: 3,
		MinOptionsPerNode:   2,
		MaxOptionsPerNode:   4,
		MaxTitleLength:      200,
		MaxContentLength:    50000,
		MaxContextChars:     4000,
		FallbackOptions: []string{
			"Tell me more",
			"Explore alternatives",
			"Consider other factors",
		},
		MaxSummaryLength: 80,
	}
}

// Validate checks if the configuration is internally consistent.
func (c *DomainConfig) Validate() error {
	if c.ConclusionThreshold < 1 {
		return fmt.Errorf("conclusion threshold must be at least 1, got %d", c.ConclusionThreshold)
	}
	if c.MinOptionsPerNode < 1 || c.MaxOptionsPerNode < c.MinOptionsPerNode {
		return fmt.Errorf("invalid option bounds: min %d, max %d", c.MinOptionsPerNode, c.MaxOptionsPerNode)
	}
	if len(c.FallbackOptions) == 0 {
		return fmt.Errorf("at least one fallback option is required")
	}
	return nil
}
