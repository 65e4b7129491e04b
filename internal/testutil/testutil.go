// Package testutil holds fakes shared by package tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
)

// BuildPDF writes a minimal PDF with one page per entry. An empty entry
// produces a page without a content stream.
func BuildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: pages, 3: font, then page/content pairs
	kids := make([]string, len(pages))
	pageIDs := make([]int, len(pages))
	contentIDs := make([]int, len(pages))
	next := 4
	for i, text := range pages {
		pageIDs[i] = next
		next++
		if text != "" {
			contentIDs[i] = next
			next++
		}
		kids[i] = fmt.Sprintf("%d 0 R", pageIDs[i])
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if contentIDs[i] != 0 {
			page += fmt.Sprintf(" /Contents %d 0 R", contentIDs[i])
		}
		obj(page + " >>")
		if contentIDs[i] != 0 {
			stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
			obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		}
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// KeywordEmbedder scores text by counts of a fixed vocabulary, so similarity
// in tests is predictable.
type KeywordEmbedder struct {
	mu      sync.Mutex
	vocab   []string
	docs    int
	queries []string

	DocErr   error
	QueryErr error
}

func NewKeywordEmbedder(vocab ...string) *KeywordEmbedder {
	if len(vocab) == 0 {
		vocab = []string{"photosynthesis", "chlorophyll", "newton", "inertia", "entropy", "topics"}
	}
	return &KeywordEmbedder{vocab: vocab}
}

func (e *KeywordEmbedder) Vector(text string) []float32 {
	v := make([]float32, len(e.vocab)+1)
	lower := strings.ToLower(text)
	for i, w := range e.vocab {
		v[i] = float32(strings.Count(lower, w))
	}
	v[len(e.vocab)] = 0.01
	return v
}

func (e *KeywordEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.DocErr != nil {
		return nil, e.DocErr
	}
	e.docs += len(texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.Vector(t)
	}
	return out, nil
}

func (e *KeywordEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.QueryErr != nil {
		return nil, e.QueryErr
	}
	e.queries = append(e.queries, text)
	return e.Vector(text), nil
}

// Docs is the number of documents embedded so far.
func (e *KeywordEmbedder) Docs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.docs
}

func (e *KeywordEmbedder) Queries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.queries...)
}

// FakeGenerator returns Reply (or Err) and records every prompt.
type FakeGenerator struct {
	mu      sync.Mutex
	prompts []string

	Reply string
	Err   error
}

func (g *FakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	return g.Reply, nil
}

func (g *FakeGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func (g *FakeGenerator) Calls() int {
	return len(g.Prompts())
}
