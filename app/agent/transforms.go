package agent

import (
	"regexp"
	"strings"
)

// Transform is one named, pure cleanup step. The pipeline is an explicit
// ordered table so each step can be tested in isolation.
type Transform struct {
	Name  string
	Apply func(string) string
}

var (
	pageMarkerRe    = regexp.MustCompile(`(?i)\bpage\s+\d+(\s+of\s+\d+)?\b`)
	versionMarkerRe = regexp.MustCompile(`(?i)\b(version|revision|rev\.)\s+\d+(\.\d+)*\b`)
	structureRe     = regexp.MustCompile(`(?i)\b(figure|fig\.|table|chapter|section)\s+\d+(\.\d+)*[.:]?`)
	numericDateRe   = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)
	monthDateRe     = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// CleanupPipeline strips structural noise left over from PDF extraction
// before sentences are scored.
var CleanupPipeline = []Transform{
	{"strip-page-markers", stripPageMarkers},
	{"strip-version-markers", stripVersionMarkers},
	{"strip-structure-markers", stripStructureMarkers},
	{"strip-dates", stripDates},
	{"collapse-whitespace", collapseWhitespace},
}

// CleanContext runs the full cleanup pipeline in order.
func CleanContext(text string) string {
	for _, t := range CleanupPipeline {
		text = t.Apply(text)
	}
	return text
}

func stripPageMarkers(s string) string {
	return pageMarkerRe.ReplaceAllString(s, " ")
}

func stripVersionMarkers(s string) string {
	return versionMarkerRe.ReplaceAllString(s, " ")
}

func stripStructureMarkers(s string) string {
	return structureRe.ReplaceAllString(s, " ")
}

func stripDates(s string) string {
	s = numericDateRe.ReplaceAllString(s, " ")
	return monthDateRe.ReplaceAllString(s, " ")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
