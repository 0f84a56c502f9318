package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kelvin-Amaju/keyclip-lite/dto"
	"github.com/Kelvin-Amaju/keyclip-lite/middleware"
	"github.com/Kelvin-Amaju/keyclip-lite/usecase"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

// SummarizeHandler invokes the summarization provider directly, without
// persisting anything.
type SummarizeHandler struct {
	Summarizer usecase.Summarizer
	Timeout    time.Duration
}

func NewSummarizeHandler(summarizer usecase.Summarizer) *SummarizeHandler {
	return &SummarizeHandler{
		Summarizer: summarizer,
		Timeout:    usecase.SummarizeTimeout,
	}
}

func (h *SummarizeHandler) Summarize(c *gin.Context) {
	var req dto.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "No content provided")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		utils.BadRequest(c, "No content provided")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Summarizer.Summarize(ctx, req.Content)
	if err != nil {
		log.Printf("Summarize request failed: %v", err)
		middleware.TrackSummarizerFailure()
		utils.InternalError(c, "Failed to generate summary")
		return
	}

	c.JSON(http.StatusOK, dto.SummarizeResponse{Summary: summary})
}
