package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user-supplied free text and trims surrounding space.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// cleanSkills cleans every tag, dropping empty ones and duplicates. Order is kept.
func cleanSkills(skills []string) []string {
	var out []string
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = cleanText(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
