package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMarkupMixedDocument(t *testing.T) {
	in := "**A**\n• one\n• two\n1. x"
	want := "<p><strong>A</strong></p>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>\n<ol>\n<li>x</li>\n</ol>"

	assert.Equal(t, want, ToMarkup(in))
}

func TestToMarkupClosesDanglingList(t *testing.T) {
	out := ToMarkup("• only item")

	assert.Equal(t, "<ul>\n<li>only item</li>\n</ul>", out)
}

func TestToMarkupBlankLineClosesLists(t *testing.T) {
	out := ToMarkup("1. first\n\nafter")

	assert.Equal(t, "<ol>\n<li>first</li>\n</ol>\n<p>after</p>", out)
}

func TestToMarkupBoldInsideListItem(t *testing.T) {
	out := ToMarkup("• check the **static pressure** reading")

	assert.Contains(t, out, "<li>check the <strong>static pressure</strong> reading</li>")
}

func TestToMarkupDashBullets(t *testing.T) {
	out := ToMarkup("- one\n- two")

	assert.Equal(t, "<ul>\n<li>one</li>\n<li>two</li>\n</ul>", out)
}

func TestToMarkupOrderedNumbersNotReemitted(t *testing.T) {
	out := ToMarkup("1. first step\n2. second step")

	assert.Equal(t, "<ol>\n<li>first step</li>\n<li>second step</li>\n</ol>", out)
	assert.NotContains(t, out, "1.")
}

func TestToMarkupPlainParagraphs(t *testing.T) {
	out := ToMarkup("alpha\nbeta")

	assert.Equal(t, "<p>alpha</p>\n<p>beta</p>", out)
}

func TestToMarkupEmptyInput(t *testing.T) {
	assert.Equal(t, "", ToMarkup(""))
}
