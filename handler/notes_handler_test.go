package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kelvin-Amaju/keyclip-lite/model"
	"github.com/Kelvin-Amaju/keyclip-lite/repository"
	"github.com/Kelvin-Amaju/keyclip-lite/services"
	"github.com/Kelvin-Amaju/keyclip-lite/usecase"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
}

type fakeStore struct {
	notes   []*model.Note
	seq     int
	listErr error
}

func (f *fakeStore) CreateNote(ctx context.Context, note *model.Note) error {
	f.seq++
	note.ID = fmt.Sprintf("note-%d", f.seq)
	note.CreatedAt = time.Unix(int64(f.seq), 0)
	note.UpdatedAt = note.CreatedAt
	if note.Tags == nil {
		note.Tags = []string{}
	}
	stored := *note
	f.notes = append(f.notes, &stored)
	return nil
}

func (f *fakeStore) GetAllNotes(ctx context.Context) ([]*model.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	notes := make([]*model.Note, len(f.notes))
	copy(notes, f.notes)
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (f *fakeStore) UpdateNote(ctx context.Context, noteID string, updates *model.Note) (*model.Note, error) {
	for _, note := range f.notes {
		if note.ID == noteID {
			note.Content = updates.Content
			note.Tags = updates.Tags
			note.UpdatedAt = time.Now()
			updated := *note
			return &updated, nil
		}
	}
	return nil, repository.ErrNoteNotFound
}

func (f *fakeStore) DeleteNote(ctx context.Context, noteID string) error {
	for i, note := range f.notes {
		if note.ID == noteID {
			f.notes = append(f.notes[:i], f.notes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoteNotFound
}

type fakeSummarizer struct {
	calls  int
	result string
	err    error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

func newNotesRouter(store *fakeStore, summarizer usecase.Summarizer, limiter usecase.Admission) *gin.Engine {
	if limiter == nil {
		limiter = services.NewRateLimiter(1000, time.Minute)
	}
	svc := usecase.NewNoteService(store, summarizer,
		services.NewMemorySummaryCache(time.Hour), limiter)
	h := NewNotesHandler(svc)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowedHandler)
	router.GET("/notes", h.ListNotes)
	router.POST("/notes", h.CreateNote)
	router.PUT("/notes/:id", h.UpdateNote)
	router.DELETE("/notes/:id", h.DeleteNote)
	return router
}

func TestCreateNoteHandler(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedCode  int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:         "Successful Creation",
			body:         `{"content": "Test note content", "tags": ["test", "go"]}`,
			expectedCode: http.StatusCreated,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var note model.Note
				if err := json.Unmarshal(w.Body.Bytes(), &note); err != nil {
					t.Fatalf("Failed to parse response: %v", err)
				}
				if note.ID == "" {
					t.Error("Response missing note ID")
				}
				if note.Content != "Test note content" {
					t.Errorf("Expected content to round-trip, got %q", note.Content)
				}
				if note.Summary != "a summary" {
					t.Errorf("Expected generated summary, got %q", note.Summary)
				}
				if len(note.Tags) != 2 || note.Tags[0] != "test" || note.Tags[1] != "go" {
					t.Errorf("Expected tags in order, got %v", note.Tags)
				}
			},
		},
		{
			name:         "Empty Content",
			body:         `{"content": ""}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Whitespace Content",
			body:         `{"content": "   "}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid JSON",
			body:         `{"content": `,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Blank Tag",
			body:         `{"content": "fine", "tags": ["  "]}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newNotesRouter(&fakeStore{}, &fakeSummarizer{result: "a summary"}, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedCode {
				t.Fatalf("Expected status %d, got %d (%s)", tt.expectedCode, w.Code, w.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestCreateNoteHandlerRateLimited(t *testing.T) {
	store := &fakeStore{}
	summarizer := &fakeSummarizer{result: "a summary"}
	router := newNotesRouter(store, summarizer, services.NewRateLimiter(1, time.Minute))

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"content": "hello"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w
	}

	if w := post(); w.Code != http.StatusCreated {
		t.Fatalf("First submission should succeed, got %d", w.Code)
	}

	w := post()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header on 429 responses")
	}
	if len(store.notes) != 1 {
		t.Errorf("Rejected submission must not be persisted, got %d notes", len(store.notes))
	}
}

func TestCreateNoteHandlerProviderFailure(t *testing.T) {
	store := &fakeStore{}
	router := newNotesRouter(store, &fakeSummarizer{err: errors.New("boom")}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"content": "hello"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Provider failure must not fail the submission, got %d", w.Code)
	}

	var note model.Note
	if err := json.Unmarshal(w.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if note.Summary != usecase.FallbackSummary {
		t.Errorf("Expected fallback summary %q, got %q", usecase.FallbackSummary, note.Summary)
	}
}

func TestListNotesHandler(t *testing.T) {
	store := &fakeStore{}
	router := newNotesRouter(store, &fakeSummarizer{result: "a summary"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("Empty store should list as an empty JSON array, got %s", w.Body.String())
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/notes",
			bytes.NewBufferString(fmt.Sprintf(`{"content": "note %d"}`, i)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var notes []model.Note
	if err := json.Unmarshal(w.Body.Bytes(), &notes); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("Expected 3 notes, got %d", len(notes))
	}
	if notes[0].Content != "note 2" {
		t.Errorf("Expected newest note first, got %q", notes[0].Content)
	}
}

func TestListNotesHandlerGatewayError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection reset")}
	router := newNotesRouter(store, &fakeSummarizer{result: "a summary"}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notes", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on gateway error, got %d", w.Code)
	}
}

func TestUpdateNoteHandler(t *testing.T) {
	store := &fakeStore{}
	router := newNotesRouter(store, &fakeSummarizer{result: "a summary"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"content": "original"}`))
	req.Header.Set("Content-Type", "application/json")
	created := httptest.NewRecorder()
	router.ServeHTTP(created, req)

	var note model.Note
	if err := json.Unmarshal(created.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}

	w := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/notes/"+note.ID,
		bytes.NewBufferString(`{"content": "edited", "tags": ["edited"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var updated model.Note
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Failed to parse update response: %v", err)
	}
	if updated.Content != "edited" {
		t.Errorf("Expected edited content, got %q", updated.Content)
	}
	if updated.Summary != "a summary" {
		t.Errorf("Update must not change the summary, got %q", updated.Summary)
	}
}

func TestUpdateNoteHandlerNotFound(t *testing.T) {
	router := newNotesRouter(&fakeStore{}, &fakeSummarizer{result: "a summary"}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/notes/missing-id",
		bytes.NewBufferString(`{"content": "edited"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestDeleteNoteHandler(t *testing.T) {
	store := &fakeStore{}
	router := newNotesRouter(store, &fakeSummarizer{result: "a summary"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewBufferString(`{"content": "to delete"}`))
	req.Header.Set("Content-Type", "application/json")
	created := httptest.NewRecorder()
	router.ServeHTTP(created, req)

	var note model.Note
	if err := json.Unmarshal(created.Body.Bytes(), &note); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/"+note.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("Expected an empty 204 body")
	}

	// Deleting again reports not found
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/notes/"+note.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newNotesRouter(&fakeStore{}, &fakeSummarizer{result: "a summary"}, nil)

	tests := []struct {
		method string
		path   string
		allow  string
	}{
		{method: http.MethodPatch, path: "/notes", allow: "GET, POST"},
		{method: http.MethodPost, path: "/notes/some-id", allow: "PUT, DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("Expected 405, got %d", w.Code)
			}
			if got := w.Header().Get("Allow"); got != tt.allow {
				t.Errorf("Expected Allow %q, got %q", tt.allow, got)
			}
		})
	}
}
