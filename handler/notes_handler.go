package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kelvin-Amaju/keyclip-lite/dto"
	"github.com/Kelvin-Amaju/keyclip-lite/repository"
	"github.com/Kelvin-Amaju/keyclip-lite/usecase"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

type NotesHandler struct {
	Service *usecase.NoteService
}

func NewNotesHandler(service *usecase.NoteService) *NotesHandler {
	return &NotesHandler{Service: service}
}

// ListNotes returns all notes, newest first
func (h *NotesHandler) ListNotes(c *gin.Context) {
	notes, err := h.Service.ListNotes(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list notes: %v", err)
		utils.InternalError(c, "Failed to fetch notes")
		return
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNote runs the submission pipeline for the calling client
func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.Service.SubmitNote(c.Request.Context(), c.ClientIP(), req.Content, req.Tags)
	if err != nil {
		var rateLimited *usecase.RateLimitError
		switch {
		case errors.As(err, &rateLimited):
			utils.TooManyRequests(c, "Too many submissions, try again later",
				int(rateLimited.RetryAfter.Seconds())+1)
		case errors.Is(err, usecase.ErrInvalidInput):
			utils.BadRequest(c, err.Error())
		default:
			log.Printf("Failed to create note: %v", err)
			utils.InternalError(c, "Failed to create note")
		}
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote replaces a note's content and tags
func (h *NotesHandler) UpdateNote(c *gin.Context) {
	noteID := c.Param("id")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := h.Service.UpdateNote(c.Request.Context(), noteID, req.Content, req.Tags)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			utils.BadRequest(c, err.Error())
		case errors.Is(err, repository.ErrNoteNotFound):
			utils.NotFound(c, "Note not found")
		default:
			log.Printf("Failed to update note %s: %v", noteID, err)
			utils.BadRequest(c, "Failed to update note")
		}
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote removes a note by ID
func (h *NotesHandler) DeleteNote(c *gin.Context) {
	noteID := c.Param("id")

	if err := h.Service.DeleteNote(c.Request.Context(), noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			utils.NotFound(c, "Note not found")
			return
		}
		log.Printf("Failed to delete note %s: %v", noteID, err)
		utils.BadRequest(c, "Failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}
