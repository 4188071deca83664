package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"litquiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
)

// quizGenerator is the part of litquiz.QuizGenerator the server needs
type quizGenerator interface {
	GenerateQuiz(ctx context.Context, req litquiz.QuizRequest) (*litquiz.Quiz, error)
}

// Server serves quiz generation and the per-browser play API
type Server struct {
	generator     quizGenerator
	store         sessions.Store
	questionCount int
	timeout       time.Duration
	corsOrigins   []string
}

func main() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to YAML config")
	verbose := flag.Bool("verbose", false, "Enable verbose debugging output")
	flag.Parse()

	cfg, err := litquiz.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	litquiz.SetVerbose(*verbose || cfg.Log.Verbose)

	refs, closeRefs, err := cfg.OpenReferenceStore()
	if err != nil {
		log.Fatalf("Failed to open reference content: %v", err)
	}
	defer closeRefs()

	generator, err := cfg.NewGenerator(refs)
	if err != nil {
		log.Fatalf("Failed to create quiz generator: %v", err)
	}

	store, err := newSessionStore(cfg.Server.SessionDir, cfg.Server.SessionKey)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	server := &Server{
		generator:     generator,
		store:         store,
		questionCount: cfg.Generation.QuestionCount,
		timeout:       cfg.GenerationTimeout(),
		corsOrigins:   cfg.Server.CORSOrigins,
	}

	httpServer := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     server.routes(),
		ReadTimeout: 15 * time.Second,
		// generation can take as long as the configured timeout
		WriteTimeout: server.timeout + 15*time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// newSessionStore keeps play state on disk; the cookie only carries the
// session id. A random key is used when none is configured, which logs every
// player out on restart.
func newSessionStore(dir, key string) (*sessions.FilesystemStore, error) {
	secret := []byte(key)
	if len(secret) == 0 {
		log.Printf("No session key configured, generating a random one")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	store := sessions.NewFilesystemStore(dir, secret)
	// a full quiz does not fit in the default 4096 bytes
	store.MaxLength(1 << 20)
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store, nil
}

func (s *Server) routes() http.Handler {
	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/chapters", s.handleChapters)
	r.Post("/generate-quiz", s.handleGenerateQuiz)

	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Get("/results", s.handleResults)
		r.Post("/start", s.handleStart)
		r.Post("/answer", s.handleAnswer)
		r.Post("/skip", s.handleSkip)
		r.Post("/advance", s.handleAdvance)
		r.Post("/reset", s.handleReset)
	})
	return r
}
