// Package geminidoc converts a validated skill manifest into the single-file
// GEMINI.md dialect. Gemini CLI does not read SKILL.md frontmatter, so the
// manifest is flattened into a plain markdown document instead.
package geminidoc

import (
	"fmt"
	"strings"

	"github.com/skillet-cli/skillet/pkg/manifest"
)

const sectionMarker = "## "

// Section is one "## " grouping of body lines, used for inspection.
type Section struct {
	Title string
	Items []string
}

// Render produces the GEMINI.md document for a manifest: a heading from the
// name, a description section, then the body. A body that already carries
// its own section markers is passed through byte-for-byte; otherwise the
// whole body is wrapped under a single Instructions section. The manifest
// is assumed to be already validated.
func Render(m *manifest.Manifest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", m.Name)
	fmt.Fprintf(&sb, "## Description\n\n%s\n\n", m.Description)

	if hasSectionMarker(m.Body) {
		sb.WriteString(m.Body)
	} else {
		sb.WriteString("## Instructions\n\n")
		sb.WriteString(m.Body)
	}

	return sb.String()
}

func hasSectionMarker(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, sectionMarker) {
			return true
		}
	}
	return false
}

// Sections groups body lines under their "## " subheadings. Non-blank lines
// become items with any list bullet stripped; lines before the first
// subheading fall into an untitled leading section.
func Sections(body string) []Section {
	var sections []Section
	current := Section{}

	flush := func() {
		if current.Title != "" || len(current.Items) > 0 {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, sectionMarker) {
			flush()
			current = Section{Title: strings.TrimSpace(strings.TrimPrefix(line, sectionMarker))}
			continue
		}

		item := strings.TrimSpace(line)
		if item == "" {
			continue
		}
		item = strings.TrimPrefix(item, "- ")
		item = strings.TrimPrefix(item, "* ")
		current.Items = append(current.Items, item)
	}
	flush()

	return sections
}
