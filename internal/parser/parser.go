// Package parser turns a semi-structured generation response into a
// structured manual. It is deliberately tolerant: malformed or unstructured
// input degrades to a raw-text-only result, never an error.
package parser

import (
	"strings"

	"torisetsu-backend/internal/models"
)

var sectionLabels = map[string]*struct{ ja, en string }{
	"overview":        {"概要", "Overview"},
	"prerequisites":   {"前提条件", "Prerequisites"},
	"troubleshooting": {"トラブルシューティング", "Troubleshooting"},
	"additional_info": {"補足情報", "Additional Information"},
}

// Parse extracts named sections and ordered steps from raw model output.
func Parse(raw, title string) *models.ManualContent {
	sections := extractSections(raw)

	pick := func(key string) string {
		labels := sectionLabels[key]
		if v, ok := sections[labels.ja]; ok && v != "" {
			return v
		}
		return sections[labels.en]
	}

	return &models.ManualContent{
		Title:           title,
		Overview:        pick("overview"),
		Prerequisites:   pick("prerequisites"),
		Steps:           extractSteps(raw),
		Troubleshooting: pick("troubleshooting"),
		AdditionalInfo:  pick("additional_info"),
		RawContent:      raw,
	}
}

// extractSections collects the body of every level-2 heading. Content before
// the first heading is discarded.
func extractSections(raw string) map[string]string {
	sections := make(map[string]string)
	var currentSection string
	var currentContent []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "## ") {
			if currentSection != "" {
				sections[currentSection] = strings.TrimSpace(strings.Join(currentContent, "\n"))
			}
			currentSection = strings.TrimSpace(line[3:])
			currentContent = nil
		} else if currentSection != "" && line != "" {
			currentContent = append(currentContent, line)
		}
	}

	if currentSection != "" {
		sections[currentSection] = strings.TrimSpace(strings.Join(currentContent, "\n"))
	}

	return sections
}

// Bullet labels that populate step fields. 操作手順 and 操作内容 both mean the
// action field; the model is not consistent between the two.
var stepFieldLabels = []struct {
	labels []string
	assign func(*models.Step, string)
}{
	{[]string{"- **操作手順**:", "- **操作内容**:", "- **Action**:"}, func(s *models.Step, v string) { s.Action = v }},
	{[]string{"- **時間**:", "- **Time**:"}, func(s *models.Step, v string) { s.Time = v }},
	{[]string{"- **画面**:", "- **Screen**:"}, func(s *models.Step, v string) { s.Screen = v }},
	{[]string{"- **注意点**:", "- **Notes**:"}, func(s *models.Step, v string) { s.Notes = v }},
	{[]string{"- **確認事項**:", "- **Verification**:"}, func(s *models.Step, v string) { s.Verification = v }},
}

// extractSteps collects level-3 step headings and their bullet fields in
// source order. Unrecognized bullets are ignored.
func extractSteps(raw string) []models.Step {
	var steps []models.Step
	var current *models.Step

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "### ステップ") || strings.HasPrefix(line, "### Step") {
			if current != nil {
				steps = append(steps, *current)
			}
			current = &models.Step{Title: strings.TrimSpace(line[len("### "):])}
			continue
		}

		if current == nil || line == "" {
			continue
		}

		for _, field := range stepFieldLabels {
			for _, label := range field.labels {
				if strings.HasPrefix(line, label) {
					field.assign(current, strings.TrimSpace(line[len(label):]))
				}
			}
		}
	}

	if current != nil {
		steps = append(steps, *current)
	}

	return steps
}
