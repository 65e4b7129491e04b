package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopicList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"clean list", "1. Algebra\n2. Calculus\n3. Geometry", []string{"Algebra", "Calculus", "Geometry"}},
		{"headings and blanks", "# Ranked topics\n\n1. Algebra\n\n   \n2) Calculus\n", []string{"Algebra", "Calculus"}},
		{"bullets", "- Thermodynamics\n- Optics", []string{"Thermodynamics", "Optics"}},
		{"marker only lines", "1.\n2. Waves\n--", []string{"Waves"}},
		{"windows newlines", "1. Sets\r\n2. Logic\r\n", []string{"Sets", "Logic"}},
		{"empty", "", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseTopicList(tc.raw))
		})
	}
}

func TestParseTopicList_IdempotentOnCleanOutput(t *testing.T) {
	first := ParseTopicList("1. Algebra\n2. Calculus\n3. Geometry")
	second := ParseTopicList(strings.Join(first, "\n"))
	assert.Equal(t, first, second)
}

func TestParseTopicList_CapsAtFifteen(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		fmt.Fprintf(&b, "%d. Topic %c\n", i, 'A'+rune(i%26))
	}
	got := ParseTopicList(b.String())
	assert.Len(t, got, MaxTopics)
	assert.Equal(t, "Topic B", got[0])
}

func TestBuildTopicPrompt(t *testing.T) {
	prompt := buildTopicPrompt([]string{"segment one", "segment two"}, "CO1: circuits")
	assert.Contains(t, prompt, "segment one\n\nsegment two")
	assert.Contains(t, prompt, "Course Outcomes: CO1: circuits")
	assert.Contains(t, prompt, "most important first")

	assert.NotContains(t, buildTopicPrompt(nil, " "), "Course Outcomes")
}
