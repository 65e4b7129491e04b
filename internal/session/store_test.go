package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examprep-backend/internal/retrieval"
)

type constEmbedder struct{}

func (constEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, float32(i)}
	}
	return out, nil
}

func (constEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func TestStore_GetOrCreate(t *testing.T) {
	st := NewStore(time.Hour, time.Minute)

	a := st.GetOrCreate("")
	require.NotEmpty(t, a.ID)
	assert.Same(t, a, st.GetOrCreate(a.ID))

	b := st.GetOrCreate("client-chosen")
	assert.Equal(t, "client-chosen", b.ID)
	assert.Equal(t, 2, st.Count())

	st.Delete(a.ID)
	_, ok := st.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Count())
}

func TestStore_Expiry(t *testing.T) {
	st := NewStore(20*time.Millisecond, time.Hour)
	s := st.GetOrCreate("short")

	time.Sleep(40 * time.Millisecond)
	_, ok := st.Get(s.ID)
	assert.False(t, ok)
}

func TestStore_ConcurrentCreateReturnsOneSession(t *testing.T) {
	st := NewStore(time.Hour, time.Minute)

	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = st.GetOrCreate("shared")
		}(i)
	}
	wg.Wait()

	for _, s := range got[1:] {
		assert.Same(t, got[0], s)
	}
}

func TestSession_Defaults(t *testing.T) {
	snap := NewStore(time.Hour, time.Minute).GetOrCreate("").Snapshot()
	assert.Equal(t, "Understand", snap.Context.BloomLevel)
	assert.Equal(t, "normal", snap.Context.StudyMode)
	assert.Equal(t, "default", snap.Context.VibeType)
	assert.False(t, snap.HasIndex())
}

func TestSession_PreferencesAndPersonaAreIndependent(t *testing.T) {
	s := NewStore(time.Hour, time.Minute).GetOrCreate("")

	s.SetPersona("vibe", "mumbai")
	s.SetContentPreferences("CO1: thermodynamics", "4", "10", "Tamil", "https://youtu.be/x")

	ctx := s.Snapshot().Context
	assert.Equal(t, "CO1: thermodynamics", ctx.CourseOutcomes)
	assert.Equal(t, "Analyze (Compare, contrast, examine)", ctx.BloomLevel)
	assert.Equal(t, "10", ctx.Weightage)
	assert.Equal(t, "Tamil", ctx.Language)
	assert.Equal(t, "https://youtu.be/x", ctx.VideoURL)
	assert.Equal(t, "vibe", ctx.StudyMode)
	assert.Equal(t, "mumbai", ctx.VibeType)

	// a later upload overwrites every content field
	s.SetContentPreferences("", "", "", "", "")
	ctx = s.Snapshot().Context
	assert.Equal(t, "Understand", ctx.BloomLevel)
	assert.Empty(t, ctx.Language)
	assert.Empty(t, ctx.VideoURL)
	assert.Equal(t, "vibe", ctx.StudyMode)
}

func TestSession_ReplaceIndex(t *testing.T) {
	s := NewStore(time.Hour, time.Minute).GetOrCreate("")

	first, err := retrieval.Build(context.Background(), constEmbedder{}, []string{"old"})
	require.NoError(t, err)
	s.ReplaceIndex(first)
	before := s.Snapshot()

	second, err := retrieval.Build(context.Background(), constEmbedder{}, []string{"new a", "new b"})
	require.NoError(t, err)
	s.ReplaceIndex(second)

	after := s.Snapshot()
	assert.Same(t, second, after.Index)
	assert.Same(t, first, before.Index, "earlier snapshots keep their own index")

	resp := after.Response()
	assert.True(t, resp.HasIndex)
	assert.Equal(t, 2, resp.Segments)
	require.NotNil(t, resp.IndexedAt)
}
