package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leetsync/leetsync/internal/config"
	"github.com/leetsync/leetsync/internal/crypto"
	"github.com/leetsync/leetsync/internal/db"
	"github.com/leetsync/leetsync/internal/github"
	"github.com/leetsync/leetsync/internal/handlers"
	"github.com/leetsync/leetsync/internal/logging"
	"github.com/leetsync/leetsync/internal/middleware"
	"github.com/leetsync/leetsync/internal/session"
	"github.com/leetsync/leetsync/internal/vault"
	"github.com/leetsync/leetsync/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	key, err := cfg.AESKey()
	if err != nil {
		log.Fatalf("Failed to load encryption key: %v", err)
	}
	cipher, err := crypto.New(key)
	if err != nil {
		log.Fatalf("Failed to initialize cipher: %v", err)
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	vlt := vault.New(database, cipher)
	issuer := session.New(cfg.SessionSecret)
	gh := github.New(cfg.GithubClientID, cfg.GithubClientSecret)
	gate := middleware.NewGate(issuer)

	r := chi.NewRouter()
	r.Use(logging.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error": "method not allowed"}`))
	})

	r.Get("/health", handlers.Health())
	r.Post("/authorize", handlers.Authorize(database, vlt, gh, issuer))
	r.Post("/push-solution", gate.Require(handlers.PushSolution(vlt, cipher, gh)))
	r.Get("/repos", gate.Require(handlers.ListRepos(vlt, cipher, gh)))
	r.Post("/setup-repo", gate.Require(handlers.SetupRepo(vlt, cipher, gh)))
	r.Post("/revoke", gate.Require(handlers.Revoke(vlt)))

	addr := cfg.Addr()
	log.Printf("🚀 LeetSync backend %s listening on http://%s", version.Version, addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
