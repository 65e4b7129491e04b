package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"examprep-backend/internal/logger"
	"examprep-backend/internal/models"
	"examprep-backend/internal/observability"
	"examprep-backend/internal/persona"
	"examprep-backend/internal/retrieval"
	"examprep-backend/internal/session"
)

const ingestSteps = 3

// ProcessRequest is one content upload with the learner's preferences.
type ProcessRequest struct {
	Uploads        []Upload
	VideoURL       string
	CourseOutcomes string
	BloomLevel     string
	Weightage      string
	Language       string
}

type ProcessResult struct {
	BloomLevel string
	Segments   int
	Message    string
}

type ModeChangeResult struct {
	Persona  persona.Persona
	Language string
}

// TutorService runs ingestion, question answering and topic ranking against
// a single session.
type TutorService struct {
	extractor *FileExtractService
	embedder  retrieval.Embedder
	llm       Generator
	personas  *persona.Table
	progress  ProgressPublisher
	log       *logger.Logger
}

func NewTutorService(
	extractor *FileExtractService,
	embedder retrieval.Embedder,
	llm Generator,
	personas *persona.Table,
	progress ProgressPublisher,
	log *logger.Logger,
) *TutorService {
	if progress == nil {
		progress = nopPublisher{}
	}
	return &TutorService{
		extractor: extractor,
		embedder:  embedder,
		llm:       llm,
		personas:  personas,
		progress:  progress,
		log:       log,
	}
}

// ProcessContent stores the learner's preferences, then extracts, splits and
// indexes the uploads. The new index replaces the session's previous one only
// when every step succeeded.
func (s *TutorService) ProcessContent(ctx context.Context, sess *session.Session, req ProcessRequest) (res ProcessResult, err error) {
	ctx, span := observability.StartSpan(ctx, "tutor.process",
		attribute.String("session.id", sess.ID),
		attribute.Int("upload.files", len(req.Uploads)),
	)
	defer func() { observability.EndSpan(span, err) }()

	sess.SetContentPreferences(req.CourseOutcomes, req.BloomLevel, req.Weightage, req.Language, req.VideoURL)

	if len(req.Uploads) == 0 || req.Uploads[0].Name == "" {
		return ProcessResult{}, &ValidationError{Message: "No PDF files uploaded"}
	}

	defer func() {
		if err != nil {
			s.publish(ctx, sess.ID, models.WSMessage{
				Type: models.WSTypeError,
				Payload: models.ErrorEvent{
					SessionID:    sess.ID,
					ErrorCode:    ErrorCode(err),
					ErrorMessage: err.Error(),
				},
			})
		}
	}()

	s.publishStep(ctx, sess.ID, 1, "Extracting text")
	text, err := s.extractor.ExtractPDFs(ctx, req.Uploads)
	if err != nil {
		return ProcessResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		return ProcessResult{}, &ExtractionError{File: req.Uploads[0].Name, Err: errors.New("no extractable text found in pdf")}
	}
	text = AppendVideoNote(text, req.VideoURL)

	s.publishStep(ctx, sess.ID, 2, "Splitting text")
	segments := retrieval.SplitText(text)

	s.publishStep(ctx, sess.ID, 3, "Creating embeddings")
	idx, err := retrieval.Build(ctx, s.embedder, segments)
	if err != nil {
		return ProcessResult{}, &ExternalError{Service: "embedding", Err: err}
	}
	sess.ReplaceIndex(idx)

	bloom := sess.Snapshot().Context.BloomLevel
	res = ProcessResult{
		BloomLevel: bloom,
		Segments:   idx.Len(),
		Message:    fmt.Sprintf("Content processed at %s level!", bloom),
	}

	s.log.Info("content indexed", "session_id", sess.ID, "files", len(req.Uploads), "chars", len(text), "segments", idx.Len())
	s.publish(ctx, sess.ID, models.WSMessage{
		Type:    models.WSTypeCompleted,
		Payload: models.CompletedEvent{SessionID: sess.ID, Segments: idx.Len(), Message: res.Message},
	})
	return res, nil
}

// Answer retrieves the closest segments and asks the model exactly once. A
// session without content yields NoIndexError before any external call.
func (s *TutorService) Answer(ctx context.Context, sess *session.Session, question string) (answer string, err error) {
	snap := sess.Snapshot()
	if !snap.HasIndex() {
		return "", &NoIndexError{}
	}
	if strings.TrimSpace(question) == "" {
		return "", &ValidationError{Message: "Question is required", Fields: map[string]string{"question": "required"}}
	}

	ctx, span := observability.StartSpan(ctx, "tutor.answer", attribute.String("session.id", snap.ID))
	defer func() { observability.EndSpan(span, err) }()

	results, err := snap.Index.Search(ctx, s.embedder, question, retrieval.DefaultTopK)
	if err != nil {
		return "", &ExternalError{Service: "embedding", Err: err}
	}

	p := s.personas.Resolve(snap.Context.StudyMode, snap.Context.VibeType)
	prompt := ComposePrompt(snap.Context, p, retrieval.Texts(results), question)

	answer, err = s.llm.Generate(ctx, prompt)
	if err != nil {
		return "", &ExternalError{Service: "llm", Err: err}
	}
	return answer, nil
}

// PrioritizeTopics asks the model to rank the course topics by exam
// importance.
func (s *TutorService) PrioritizeTopics(ctx context.Context, sess *session.Session) (topics []string, err error) {
	snap := sess.Snapshot()
	if !snap.HasIndex() {
		return nil, &NoIndexError{}
	}

	ctx, span := observability.StartSpan(ctx, "tutor.prioritize_topics", attribute.String("session.id", snap.ID))
	defer func() { observability.EndSpan(span, err) }()

	results, err := snap.Index.Search(ctx, s.embedder, TopicQuery, TopicSegments)
	if err != nil {
		return nil, &ExternalError{Service: "embedding", Err: err}
	}

	raw, err := s.llm.Generate(ctx, buildTopicPrompt(retrieval.Texts(results), snap.Context.CourseOutcomes))
	if err != nil {
		return nil, &ExternalError{Service: "llm", Err: err}
	}

	topics = ParseTopicList(raw)
	span.SetAttributes(attribute.Int("topics.count", len(topics)))
	return topics, nil
}

// ChangeMode resolves and stores the persona. Unknown modes are stored as
// "normal" so later prompts match what the caller was told.
func (s *TutorService) ChangeMode(sess *session.Session, mode, variant string) ModeChangeResult {
	p := s.personas.Resolve(mode, variant)
	sess.SetPersona(string(p.Mode), p.Variant)

	snap := sess.Snapshot()
	return ModeChangeResult{
		Persona:  p,
		Language: p.ResolveLanguage(snap.Context.Language),
	}
}

func (s *TutorService) publishStep(ctx context.Context, sessionID string, step int, name string) {
	s.publish(ctx, sessionID, models.WSMessage{
		Type: models.WSTypeStatusUpdate,
		Payload: models.StatusUpdate{
			SessionID:  sessionID,
			Step:       step,
			TotalSteps: ingestSteps,
			StepName:   name,
		},
	})
}

func (s *TutorService) publish(ctx context.Context, sessionID string, msg models.WSMessage) {
	if err := s.progress.Publish(ctx, sessionID, msg); err != nil {
		s.log.Warn("progress publish failed", "session_id", sessionID, "type", msg.Type, "error", err)
	}
}

// ErrorCode classifies err for API responses and progress events.
func ErrorCode(err error) string {
	var (
		validationErr *ValidationError
		noIndexErr    *NoIndexError
		extractionErr *ExtractionError
		tooLargeErr   *TooLargeError
		externalErr   *ExternalError
	)
	switch {
	case errors.As(err, &validationErr):
		return "VALIDATION_ERROR"
	case errors.As(err, &noIndexErr):
		return "NO_CONTENT"
	case errors.As(err, &tooLargeErr):
		return "FILE_TOO_LARGE"
	case errors.As(err, &extractionErr):
		return "EXTRACTION_FAILED"
	case errors.As(err, &externalErr):
		return strings.ToUpper(externalErr.Service) + "_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
