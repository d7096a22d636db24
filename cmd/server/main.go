package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/studymitra/backend/internal/auth"
	"github.com/studymitra/backend/internal/content"
	"github.com/studymitra/backend/internal/database"
	"github.com/studymitra/backend/internal/generator"
	"github.com/studymitra/backend/internal/middleware"
	"github.com/studymitra/backend/internal/practice"
	"github.com/studymitra/backend/internal/quiz"
	"github.com/studymitra/backend/internal/rewards"
)

func main() {
	// Load .env if present (local development)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Coin credit worker
	rewardStore := rewards.NewStore(db)
	rewardService := rewards.NewService(rewardStore)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	rewardService.Start(workerCtx)

	// Stores and services
	contentStore := content.NewStore(db)
	gen := generator.NewGenerator()

	quizStore := quiz.NewStore(db)
	quizService := quiz.NewService(quizStore, contentStore, rewardService)

	practiceStore := practice.NewStore(db)
	practiceService := practice.NewService(practiceStore, contentStore)

	// Handlers
	authHandler := auth.NewHandler(db)
	contentHandler := content.NewHandler(contentStore, gen)
	quizHandler := quiz.NewHandler(quizService)
	practiceHandler := practice.NewHandler(practiceService)
	rewardHandler := rewards.NewHandler(rewardStore)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/student/chapters", contentHandler.ListChapters).Methods("GET")
	protected.HandleFunc("/student/chapters/{chapterID}/topics", contentHandler.ListTopics).Methods("GET")
	protected.HandleFunc("/content/generate", contentHandler.GenerateContent).Methods("POST")
	protected.HandleFunc("/content/{contentID}", contentHandler.GetContent).Methods("GET")

	// Fixed quiz paths must be registered before the {sessionID} routes
	protected.HandleFunc("/quiz/start", quizHandler.Start).Methods("POST")
	protected.HandleFunc("/quiz/history", quizHandler.History).Methods("GET")
	protected.HandleFunc("/quiz/stats", quizHandler.Stats).Methods("GET")
	protected.HandleFunc("/quiz/{sessionID}/next", quizHandler.Next).Methods("GET")
	protected.HandleFunc("/quiz/{sessionID}/answer", quizHandler.Answer).Methods("POST")
	protected.HandleFunc("/quiz/{sessionID}/submit", quizHandler.Submit).Methods("POST")
	protected.HandleFunc("/quiz/{sessionID}/results", quizHandler.Results).Methods("GET")

	protected.HandleFunc("/student/questions", practiceHandler.Questions).Methods("POST")
	protected.HandleFunc("/student/questions/random", practiceHandler.RandomQuestion).Methods("GET")
	protected.HandleFunc("/student/adaptive/next", practiceHandler.AdaptiveNext).Methods("GET")
	protected.HandleFunc("/student/attempts/track", practiceHandler.TrackAttempt).Methods("POST")
	protected.HandleFunc("/student/stats", practiceHandler.Stats).Methods("GET")

	protected.HandleFunc("/rewards/balance", rewardHandler.Balance).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{Addr: ":" + port, Handler: handler}

	// Drain the coin queue before exiting on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		stopWorker()
		rewardService.Wait()
		server.Shutdown(context.Background())
	}()

	log.Printf("Server starting on :%s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
