package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kelvin-Amaju/keyclip-lite/handler"
	"github.com/Kelvin-Amaju/keyclip-lite/middleware"
	"github.com/Kelvin-Amaju/keyclip-lite/repository"
	"github.com/Kelvin-Amaju/keyclip-lite/services"
	"github.com/Kelvin-Amaju/keyclip-lite/usecase"
	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	// Check required environment variables
	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"GEMINI_API_KEY",
		"PORT",
	}

	log.Println("Environment variables:")
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" {
			log.Printf("%s: not set", envVar)
		} else {
			log.Printf("%s: set", envVar)
		}
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	// Initialize MongoDB connection
	utils.InitMongoClient()
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	// Persistence gateway
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	if err := repository.SetupIndexes(utils.MongoClient.Database(os.Getenv("MONGO_DB"))); err != nil {
		log.Printf("Index setup failed, continuing without indexes: %v", err)
	}

	// Summarization provider
	summarizer, err := services.NewGeminiSummarizer()
	if err != nil {
		log.Fatalf("Failed to initialize summarizer: %v", err)
	}

	// Summary cache: Redis-backed when REDIS_URL is set, in-process otherwise
	var cache services.SummaryCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisCache, err := services.NewRedisSummaryCache(redisURL, services.SummaryTTL)
		if err != nil {
			log.Printf("Redis summary cache unavailable, using in-memory cache: %v", err)
			cache = services.NewMemorySummaryCache(services.SummaryTTL)
		} else {
			log.Println("Using Redis summary cache")
			cache = redisCache
		}
	} else {
		cache = services.NewMemorySummaryCache(services.SummaryTTL)
	}

	// Admission controller
	limiter := services.NewRateLimiter(
		utils.GetEnvAsInt("RATE_LIMIT_POINTS", 50),
		utils.GetEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
	)

	notesService := usecase.NewNoteService(notesRepo, summarizer, cache, limiter)

	notesHandler := handler.NewNotesHandler(notesService)
	summarizeHandler := handler.NewSummarizeHandler(summarizer)
	healthHandler := handler.NewHealthHandler(notesRepo)

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestSizeLimiter(middleware.MaxRequestBody))

	router.NoMethod(handler.MethodNotAllowedHandler)

	router.GET("/notes", notesHandler.ListNotes)
	router.POST("/notes", notesHandler.CreateNote)
	router.PUT("/notes/:id", notesHandler.UpdateNote)
	router.DELETE("/notes/:id", notesHandler.DeleteNote)

	router.POST("/summarize", summarizeHandler.Summarize)

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func main() {
	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
