package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// DefaultTopK matches the usual similarity-search library default.
const DefaultTopK = 4

// Segment is one indexed slice of source text.
type Segment struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

type SearchResult struct {
	Segment Segment `json:"segment"`
	Score   float64 `json:"score"`
}

// Index is an exact cosine-similarity index over L2-normalised vectors. It is
// never mutated after Build returns, so readers need no locking.
type Index struct {
	segments  []Segment
	vectors   [][]float32
	dimension int
	builtAt   time.Time
}

// Build embeds every segment with embedder and returns a fresh index.
// Embedding failures are returned as-is; no partial index is produced.
func Build(ctx context.Context, embedder Embedder, texts []string) (*Index, error) {
	idx := &Index{builtAt: time.Now()}
	if len(texts) == 0 {
		return idx, nil
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(texts))
	}

	idx.dimension = len(vectors[0])
	idx.segments = make([]Segment, len(texts))
	idx.vectors = make([][]float32, len(texts))
	for i, v := range vectors {
		if len(v) != idx.dimension {
			return nil, errors.New("vector dimension mismatch")
		}
		idx.segments[i] = Segment{Position: i, Text: texts[i]}
		idx.vectors[i] = normalize(v)
	}
	return idx, nil
}

func (idx *Index) Len() int {
	return len(idx.segments)
}

func (idx *Index) Dimension() int {
	return idx.dimension
}

func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Search embeds query and returns the k most similar segments.
func (idx *Index) Search(ctx context.Context, embedder Embedder, query string, k int) ([]SearchResult, error) {
	if idx.Len() == 0 {
		return nil, nil
	}
	vec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	return idx.SearchVector(vec, k)
}

// SearchVector returns up to k segments ordered by descending cosine score.
// Ties keep document order.
func (idx *Index) SearchVector(vec []float32, k int) ([]SearchResult, error) {
	if idx.Len() == 0 {
		return nil, nil
	}
	if len(vec) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(vec), idx.dimension)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	q := normalize(vec)
	results := make([]SearchResult, len(idx.vectors))
	for i, v := range idx.vectors {
		results[i] = SearchResult{Segment: idx.segments[i], Score: dot(v, q)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Texts returns the segment texts of results in order.
func Texts(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Segment.Text
	}
	return out
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
