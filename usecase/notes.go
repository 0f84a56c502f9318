package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Kelvin-Amaju/keyclip-lite/middleware"
	"github.com/Kelvin-Amaju/keyclip-lite/model"
)

const (
	// MaxContentLength is the largest accepted note body, in characters.
	MaxContentLength = 10000

	// SummarizeTimeout bounds a single provider call.
	SummarizeTimeout = 10 * time.Second

	// FallbackSummary is stored when the provider fails; the submission
	// itself still succeeds.
	FallbackSummary = "Summary unavailable due to API error"
)

// ErrInvalidInput marks caller errors (empty or oversized content).
var ErrInvalidInput = errors.New("invalid input")

// RateLimitError is returned when a client exhausted its submission
// budget. RetryAfter is the time left until the client's window resets.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

// NoteStore is the persistence gateway consumed by the service.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetAllNotes(ctx context.Context) ([]*model.Note, error)
	UpdateNote(ctx context.Context, noteID string, updates *model.Note) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
}

// Summarizer turns note content into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// SummaryCache memoizes provider summaries keyed by note content.
type SummaryCache interface {
	Get(ctx context.Context, content string) (string, bool)
	Set(ctx context.Context, content string, summary string)
}

// Admission gates submissions per client key.
type Admission interface {
	Allow(clientKey string, cost int) (bool, time.Duration)
}

type NoteService struct {
	Store            NoteStore
	Summarizer       Summarizer
	Cache            SummaryCache
	Limiter          Admission
	SummarizeTimeout time.Duration
}

func NewNoteService(store NoteStore, summarizer Summarizer, cache SummaryCache, limiter Admission) *NoteService {
	return &NoteService{
		Store:            store,
		Summarizer:       summarizer,
		Cache:            cache,
		Limiter:          limiter,
		SummarizeTimeout: SummarizeTimeout,
	}
}

func validateContent(content string) error {
	if content == "" {
		return fmt.Errorf("%w: note content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return fmt.Errorf("%w: note content exceeds maximum length of %d characters", ErrInvalidInput, MaxContentLength)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

// SubmitNote runs the submission pipeline: admission check, validation,
// cache consult, provider call on a miss, persistence. Provider failures
// never fail the submission; the note is stored with FallbackSummary.
func (svc *NoteService) SubmitNote(ctx context.Context, clientKey string, content string, tags []string) (*model.Note, error) {
	if ok, retryAfter := svc.Limiter.Allow(clientKey, 1); !ok {
		middleware.TrackRateLimitRejection()
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	summary, hit := svc.Cache.Get(ctx, content)
	middleware.TrackCacheLookup(hit)
	if !hit {
		sctx, cancel := context.WithTimeout(ctx, svc.SummarizeTimeout)
		generated, err := svc.Summarizer.Summarize(sctx, content)
		cancel()
		if err != nil {
			log.Printf("Summarization failed, storing fallback summary: %v", err)
			middleware.TrackSummarizerFailure()
			summary = FallbackSummary
		} else {
			summary = generated
			svc.Cache.Set(ctx, content, generated)
		}
	}

	note := &model.Note{
		Content: content,
		Summary: summary,
		Tags:    normalizeTags(tags),
	}

	if err := svc.Store.CreateNote(ctx, note); err != nil {
		middleware.TrackError("db")
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	middleware.TrackNoteOperation("create")
	return note, nil
}

// ListNotes returns all notes, newest first
func (svc *NoteService) ListNotes(ctx context.Context) ([]*model.Note, error) {
	notes, err := svc.Store.GetAllNotes(ctx)
	if err != nil {
		middleware.TrackError("db")
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	middleware.TrackNoteOperation("list")
	return notes, nil
}

// UpdateNote replaces a note's content and tags. The stored summary is
// not regenerated.
func (svc *NoteService) UpdateNote(ctx context.Context, noteID string, content string, tags []string) (*model.Note, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	updates := &model.Note{
		Content: content,
		Tags:    normalizeTags(tags),
	}

	note, err := svc.Store.UpdateNote(ctx, noteID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	middleware.TrackNoteOperation("update")
	return note, nil
}

// DeleteNote removes a note by ID
func (svc *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	if err := svc.Store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	middleware.TrackNoteOperation("delete")
	return nil
}
