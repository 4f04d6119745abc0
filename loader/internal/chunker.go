package internal

import "strings"

// SplitWords cuts text into overlapping word windows. Window i starts at
// i*(size-overlap) and covers up to size words, so every word lands in at
// least one window. Geometry (0 <= overlap < size) is validated at config
// load, not here.
func SplitWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	step := size - overlap
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}

		content := strings.Join(words[i:end], " ")
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, content)
		}

		if end == len(words) {
			break
		}
	}
	return chunks
}
