package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/scribe/internal/delivery"
	ws "github.com/Vovarama1992/scribe/internal/delivery/ws"
	"github.com/Vovarama1992/scribe/internal/domain"
	"github.com/Vovarama1992/scribe/internal/domain/stations"
	"github.com/Vovarama1992/scribe/internal/infra"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// ENV
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	// LOGGER
	zcore, _ := zap.NewProduction()
	zl := logger.NewZapLogger(zcore.Sugar())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	modelPath := os.Getenv("VOSK_MODEL_PATH")
	if modelPath == "" {
		modelPath = "model"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		panic("DATABASE_URL is not set")
	}

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		log.Println("WARN: AUTH_SECRET is not set; /api routes are public")
	}

	ctx := context.Background()

	// MODEL (build step usually did this; startup covers bare hosts)
	if err := infra.EnsureModel(ctx, modelPath, os.Getenv("VOSK_MODEL_URL")); err != nil {
		panic("vosk model: " + err.Error())
	}

	// POSTGRES
	pool, err := infra.NewPgxPool(ctx, dsn)
	if err != nil {
		panic("postgres: " + err.Error())
	}
	defer pool.Close()

	// SERVICES
	authService := domain.NewAuthService(secret, os.Getenv("AUTH_PASSWORD"))

	jobRepo := infra.NewPostgresJobRepo(pool)

	recognizer, err := infra.NewVoskRecognizer(modelPath)
	if err != nil {
		panic("vosk recognizer: " + err.Error())
	}

	// STATIONS
	s1 := stations.NewS1DecodePCM()
	s2 := stations.NewS2SplitChunks()
	s3 := stations.NewS3PCMtoWAV()
	s4 := stations.NewS4PCMtoText(recognizer)

	// TRANSCRIBE SERVICE (оркестратор)
	transcriber := domain.NewTranscribeService(
		jobRepo,
		s1, s2, s3, s4,
		uploadDir,
		logDir,
	)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENER
	go func() {
		for ev := range transcriber.Events() {

			// terminal frame: the job finished or fell over
			if ev.Status != "" {
				payload, _ := json.Marshal(map[string]any{
					"status": ev.Status,
					"jobId":  ev.JobID,
				})
				hub.SendToRoom(ev.RoomID, payload)
				continue
			}

			type wsChunk struct {
				JobID int    `json:"jobId"`
				Chunk int    `json:"chunk"`
				Text  string `json:"text"`
			}

			payload, err := json.Marshal(wsChunk{
				JobID: ev.JobID,
				Chunk: ev.ChunkNumber,
				Text:  ev.Text,
			})
			if err != nil {
				log.Printf("[SEND][ERR] json marshal failed: %v", err)
				continue
			}

			hub.SendToRoom(ev.RoomID, payload)
		}
	}()

	// HANDLERS
	authHandler := delivery.NewAuthHandler(authService, zl)
	uploadHandler := delivery.NewUploadHandler(transcriber, uploadDir, zl)
	jobHandler := delivery.NewJobHandler(jobRepo, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Auth", "X-Room"},
		AllowCredentials: true,
	}))

	// bounded per-request timeout, websocket route stays outside it
	r.Group(func(g chi.Router) {
		g.Use(middleware.Timeout(10 * time.Minute))
		delivery.RegisterRoutes(g, authHandler, authService, uploadHandler, jobHandler)
	})

	r.Get("/ws", ws.ProgressHandler(hub))

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields:  map[string]any{"port": port, "model": modelPath},
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
	}
}
