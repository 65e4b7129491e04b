package services

import (
	"fmt"
	"strings"

	"examprep-backend/internal/models"
	"examprep-backend/internal/persona"
)

const (
	// NoContentMessage is returned by Answer when nothing has been processed.
	NoContentMessage = "Please process a PDF first."
	// NotFoundAnswer is the sentence the model must use when the notes lack an answer.
	NotFoundAnswer = "I can't find the answer in the notes."

	contextSlot  = "{context}"
	questionSlot = "{question}"
)

// BuildTemplate renders the instruction template for a session. The result
// keeps the {context} and {question} slots open for FillTemplate.
func BuildTemplate(sc models.SessionContext, p persona.Persona) string {
	var b strings.Builder
	language := p.ResolveLanguage(sc.Language)

	// Layer 1: Role
	b.WriteString("You are an academic tutor. Answer the question based on the provided context, ")
	b.WriteString("keeping the learner's Goal, Cognitive Level, and Topic Weightage in mind.\n\n")

	// Layer 2: Persona
	b.WriteString(p.StyleBlock())
	b.WriteString("\n")

	// Layer 3: Learner
	b.WriteString(fmt.Sprintf("Learner's Course Outcomes: %s\n", sc.CourseOutcomes))
	b.WriteString(fmt.Sprintf("Target Bloom's Taxonomy Level: %s\n", sc.BloomLevel))
	b.WriteString(fmt.Sprintf("Topic Weightage in Exam: %s marks\n", sc.Weightage))
	b.WriteString(fmt.Sprintf("Language: %s\n\n", language))

	// Layer 4: Rules
	b.WriteString("Instructions:\n")
	b.WriteString("1. Use only the provided context to answer.\n")
	b.WriteString("2. Adjust your explanation style to match the Bloom's Level (e.g., 'Analyze' should compare/contrast, 'Remember' should define).\n")
	b.WriteString(fmt.Sprintf("3. For higher weightage topics (%s marks), provide more comprehensive explanations with examples and detailed coverage.\n", sc.Weightage))
	b.WriteString("4. For lower weightage topics, keep explanations concise but complete.\n")
	b.WriteString(fmt.Sprintf("5. If the answer is not in the context, say exactly: \"%s\"\n", NotFoundAnswer))
	b.WriteString("6. This is an Indian college exam, so be rigorous and thorough about the content.\n")
	b.WriteString(fmt.Sprintf("7. Respond in %s and keep this language and style consistent throughout the answer.\n\n", language))

	// Layer 5: Slots
	b.WriteString("Context:\n")
	b.WriteString(contextSlot)
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(questionSlot)
	b.WriteString("\n\nAnswer:\n")

	return b.String()
}

// FillTemplate fills both open slots in one pass so text inside the context
// is never treated as a slot.
func FillTemplate(template string, segments []string, question string) string {
	r := strings.NewReplacer(
		contextSlot, strings.Join(segments, "\n\n"),
		questionSlot, question,
	)
	return r.Replace(template)
}

// ComposePrompt builds and fills the template in one step.
func ComposePrompt(sc models.SessionContext, p persona.Persona, segments []string, question string) string {
	return FillTemplate(BuildTemplate(sc, p), segments, question)
}
