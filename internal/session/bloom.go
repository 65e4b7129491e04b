package session

import (
	"strings"

	"examprep-backend/internal/models"
)

var bloomLevels = map[string]string{
	"1": "Remember (Define, list, memorize)",
	"2": "Understand (Explain, classify, discuss)",
	"3": "Apply (Solve, use, implement)",
	"4": "Analyze (Compare, contrast, examine)",
	"5": "Evaluate (Argue, judge, critique)",
	"6": "Create (Design, construct, develop)",
}

// ResolveBloomLevel maps a Bloom code "1".."6" to its label. Every other
// value, including "", resolves to "Understand".
func ResolveBloomLevel(code string) string {
	if label, ok := bloomLevels[strings.TrimSpace(code)]; ok {
		return label
	}
	return models.DefaultBloomLevel
}
