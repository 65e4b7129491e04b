package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/models"
	"examprep-backend/internal/persona"
	"examprep-backend/internal/testutil"
)

var errBoom = errors.New("boom")

var buildPDF = testutil.BuildPDF

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

func memUpload(name string, data []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReaderAt, io.Closer, error) {
			return bytes.NewReader(data), noopCloser{}, nil
		},
	}
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []models.WSMessage
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, msg models.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.msgs))
	for i, m := range p.msgs {
		out[i] = m.Type
	}
	return out
}

func newTestTutor(emb *testutil.KeywordEmbedder, gen *testutil.FakeGenerator, pub ProgressPublisher) *TutorService {
	return NewTutorService(NewFileExtractService(logger.Nop()), emb, gen, persona.Default(), pub, logger.Nop())
}
