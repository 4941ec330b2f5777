package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConclusion_LabeledSections(t *testing.T) {
	raw := "RECOMMENDATION: Take the new job\nREFLECTION: You have weighed risk and reward carefully"

	c := ParseConclusion(raw)

	assert.Equal(t, "Take the new job", c.Decision)
	assert.Equal(t, "You have weighed risk and reward carefully", c.Reflection)
}

func TestParseConclusion_MultiLineSections(t *testing.T) {
	raw := "Recommendation:\nTake the new job.\nNegotiate the start date.\nReflection:\nYou valued growth over stability."

	c := ParseConclusion(raw)

	assert.Equal(t, "Take the new job.\nNegotiate the start date.", c.Decision)
	assert.Equal(t, "You valued growth over stability.", c.Reflection)
}

func TestParseConclusion_UnlabeledFallsBack(t *testing.T) {
	raw := "You should probably take the job, all things considered."

	c := ParseConclusion(raw)

	assert.Equal(t, raw, c.Decision)
	assert.Equal(t, fallbackReflection, c.Reflection)
}

func TestParseConclusion_MissingReflectionGetsGenericOne(t *testing.T) {
	raw := "RECOMMENDATION: Stay where you are"

	c := ParseConclusion(raw)

	assert.Equal(t, "Stay where you are", c.Decision)
	assert.Equal(t, fallbackReflection, c.Reflection)
}

func TestParseConclusion_EmptyInput(t *testing.T) {
	c := ParseConclusion("")

	assert.Empty(t, c.Decision)
	assert.Equal(t, fallbackReflection, c.Reflection)
}
