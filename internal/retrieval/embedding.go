package retrieval

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"examprep-backend/internal/observability"
)

// maxBatchSize is the Gemini BatchEmbedContents request limit.
const maxBatchSize = 100

// Embedder turns text into fixed-length vectors. The same model must serve
// both index builds and queries.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type GeminiEmbedder struct {
	client      *genai.Client
	modelName   string
	concurrency int
}

func NewGeminiEmbedder(ctx context.Context, apiKey, modelName string, concurrency int) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding client: %w", err)
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &GeminiEmbedder{
		client:      client,
		modelName:   modelName,
		concurrency: concurrency,
	}, nil
}

func (e *GeminiEmbedder) Close() {
	e.client.Close()
}

// EmbedDocuments embeds texts in batches, running up to concurrency batches
// at once. The result is index-aligned with texts.
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	ctx, span := observability.StartSpan(ctx, "embedding.documents",
		attribute.String("embedding.model", e.modelName),
		attribute.Int("embedding.texts", len(texts)),
	)
	defer func() { observability.EndSpan(span, err) }()

	vectors = make([][]float32, len(texts))
	model := e.client.EmbeddingModel(e.modelName)
	model.TaskType = genai.TaskTypeRetrievalDocument

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for start := 0; start < len(texts); start += maxBatchSize {
		start := start
		end := min(start+maxBatchSize, len(texts))
		g.Go(func() error {
			batch := model.NewBatch()
			for _, t := range texts[start:end] {
				batch.AddContent(genai.Text(t))
			}
			resp, err := model.BatchEmbedContents(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d-%d: %w", start, end, err)
			}
			if len(resp.Embeddings) != end-start {
				return fmt.Errorf("batch %d-%d: expected %d embeddings, got %d", start, end, end-start, len(resp.Embeddings))
			}
			for i, emb := range resp.Embeddings {
				if emb == nil || len(emb.Values) == 0 {
					return fmt.Errorf("batch %d-%d: empty embedding at %d", start, end, i)
				}
				vectors[start+i] = emb.Values
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) (vec []float32, err error) {
	ctx, span := observability.StartSpan(ctx, "embedding.query",
		attribute.String("embedding.model", e.modelName),
	)
	defer func() { observability.EndSpan(span, err) }()

	model := e.client.EmbeddingModel(e.modelName)
	model.TaskType = genai.TaskTypeRetrievalQuery

	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Embedding.Values, nil
}
