package format

import (
	"regexp"
	"strings"
)

var (
	boldRe    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	orderedRe = regexp.MustCompile(`^\d+\.\s+`)
)

// ToMarkup converts the synthesizer's lightweight markup to HTML in a
// single forward pass. Two flags track open lists so every opened tag is
// closed exactly once regardless of input shape.
func ToMarkup(text string) string {
	var b strings.Builder
	inUnordered := false
	inOrdered := false

	closeUnordered := func() {
		if inUnordered {
			b.WriteString("</ul>\n")
			inUnordered = false
		}
	}
	closeOrdered := func() {
		if inOrdered {
			b.WriteString("</ol>\n")
			inOrdered = false
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			closeUnordered()
			closeOrdered()
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "- "):
			closeOrdered()
			if !inUnordered {
				b.WriteString("<ul>\n")
				inUnordered = true
			}
			item := strings.TrimPrefix(trimmed, "• ")
			item = strings.TrimSpace(strings.TrimPrefix(item, "- "))
			b.WriteString("<li>" + emphasize(item) + "</li>\n")

		case orderedRe.MatchString(trimmed):
			closeUnordered()
			if !inOrdered {
				b.WriteString("<ol>\n")
				inOrdered = true
			}
			item := orderedRe.ReplaceAllString(trimmed, "")
			b.WriteString("<li>" + emphasize(item) + "</li>\n")

		default:
			closeUnordered()
			closeOrdered()
			b.WriteString("<p>" + emphasize(trimmed) + "</p>\n")
		}
	}

	closeUnordered()
	closeOrdered()
	return strings.TrimSuffix(b.String(), "\n")
}

func emphasize(s string) string {
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}
