package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kelvin-Amaju/keyclip-lite/repository"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

var startTime = time.Now()

type HealthHandler struct {
	NotesRepo *repository.NotesRepo
}

func NewHealthHandler(notesRepo *repository.NotesRepo) *HealthHandler {
	return &HealthHandler{NotesRepo: notesRepo}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	noteCount, err := h.NotesRepo.CountNotes(ctx)
	if err != nil {
		log.Printf("Health check failed to count notes: %v", err)
		status = "degraded"
	}

	mongoMetrics := utils.GetMongoMetrics()

	c.JSON(http.StatusOK, gin.H{
		"status": status,
		"uptime": time.Since(startTime).String(),
		"notes":  noteCount,
		"system": gin.H{
			"cpu_percent":    utils.GetCPUUsage(),
			"memory_percent": utils.GetMemoryUsage(),
		},
		"mongo": gin.H{
			"active_connections":  mongoMetrics.ActiveConnections,
			"created_connections": mongoMetrics.CreatedConnections,
			"closed_connections":  mongoMetrics.ClosedConnections,
		},
	})
}
