package services

import (
	"fmt"
	"strings"
)

const (
	// TopicQuery is the synthetic retrieval query for topic ranking.
	TopicQuery = "main topics covered in this course"
	// TopicSegments is how many segments feed the ranking prompt.
	TopicSegments = 10
	// MaxTopics caps the parsed topic list.
	MaxTopics = 15

	enumerationMarkers = "0123456789.- )"
)

func buildTopicPrompt(segments []string, courseOutcomes string) string {
	var b strings.Builder

	b.WriteString("You are an experienced university examiner. Based on the course material below, ")
	b.WriteString("identify the distinct topics it covers and rank them by how important they are for the exam.\n\n")

	if strings.TrimSpace(courseOutcomes) != "" {
		b.WriteString(fmt.Sprintf("Course Outcomes: %s\n\n", courseOutcomes))
	}

	b.WriteString("Output rules: one topic per line, most important first, numbered like \"1. Topic\". ")
	b.WriteString(fmt.Sprintf("List at most %d topics. No headings, no explanations, no extra text.\n\n", MaxTopics))

	b.WriteString("---MATERIAL START---\n")
	b.WriteString(strings.Join(segments, "\n\n"))
	b.WriteString("\n---MATERIAL END---\n")

	return b.String()
}

// ParseTopicList turns a numbered model response into topic names. Blank
// lines and lines starting with '#' are dropped and the result holds at most
// MaxTopics entries.
func ParseTopicList(raw string) []string {
	topics := make([]string, 0, MaxTopics)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimLeft(line, enumerationMarkers)
		if line == "" {
			continue
		}
		topics = append(topics, line)
		if len(topics) == MaxTopics {
			break
		}
	}
	return topics
}
