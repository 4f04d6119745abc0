package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanContextStripsStructuralNoise(t *testing.T) {
	in := "Page 3 of 12  Heat pumps move heat rather than generate it. Version 2.1 " +
		"Figure 4: refrigeration cycle. Revised 12/31/2023. See Chapter 7 for duct sizing."

	out := CleanContext(in)

	assert.NotContains(t, out, "Page 3")
	assert.NotContains(t, out, "Version 2.1")
	assert.NotContains(t, out, "Figure 4")
	assert.NotContains(t, out, "Chapter 7")
	assert.NotContains(t, out, "12/31/2023")
	assert.Contains(t, out, "Heat pumps move heat rather than generate it.")
	assert.Contains(t, out, "duct sizing")
}

func TestStripDatesHandlesBothFormats(t *testing.T) {
	assert.NotContains(t, stripDates("updated 03-15-2024 end"), "03-15-2024")
	assert.NotContains(t, stripDates("published January 5, 2021 end"), "January 5, 2021")
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("  a\n\n b\t c  "))
}

func TestPipelineStepsAreNamed(t *testing.T) {
	seen := map[string]bool{}
	for _, step := range CleanupPipeline {
		assert.NotEmpty(t, step.Name)
		assert.False(t, seen[step.Name], "duplicate step %s", step.Name)
		seen[step.Name] = true
	}
}
