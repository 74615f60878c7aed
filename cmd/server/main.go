package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/lineahq/linea/backend-go/internal/auth"
	"github.com/lineahq/linea/backend-go/internal/collab"
	"github.com/lineahq/linea/backend-go/internal/config"
	"github.com/lineahq/linea/backend-go/internal/db"
	"github.com/lineahq/linea/backend-go/internal/document"
	mw "github.com/lineahq/linea/backend-go/internal/middleware"
	"github.com/lineahq/linea/backend-go/internal/project"
	"github.com/lineahq/linea/backend-go/internal/typeid"
)

// The playground project is shared and editable without an account.
const playgroundProjectID = "proj_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("ensure schema", "error", err)
		os.Exit(1)
	}
	if err := ensurePlayground(ctx, store); err != nil {
		slog.Error("seed playground project", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(store, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	projectService := project.NewService(store)
	projectHandler := project.NewHandler(projectService)

	// Document loader for the collaboration hub
	docLoader := func(projectID string) (*document.Document, error) {
		// Use a background context since this runs in the hub goroutine
		snap, err := store.GetLatestSnapshot(context.Background(), projectID)
		if err != nil {
			return nil, err
		}
		var doc document.Document
		if err := json.Unmarshal(snap.Document, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	// Document saver for the collaboration hub
	docSaver := func(projectID string, doc json.RawMessage) error {
		// Get current version to increment
		currentSnap, err := store.GetLatestSnapshot(context.Background(), projectID)
		nextVersion := int32(1)
		if err == nil {
			nextVersion = currentSnap.Version + 1
		}

		_, err = store.CreateSnapshot(context.Background(), db.CreateSnapshotParams{
			ID:        typeid.NewSnapshotID(),
			ProjectID: projectID,
			Version:   nextVersion,
			Document:  doc,
		})
		if err != nil {
			return fmt.Errorf("create snapshot: %w", err)
		}

		if err := store.TouchProject(context.Background(), projectID); err != nil {
			slog.Warn("touch project", "projectId", projectID, "error", err)
		}

		return nil
	}

	hub := collab.NewHub(docLoader, docSaver)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware; CORS wraps the router below so preflights are
	// answered even for unregistered OPTIONS routes
	r.Use(mw.Recovery)
	r.Use(mw.Logger)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/projects", projectHandler.List).Methods("GET")
	api.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	api.HandleFunc("/projects/{projectId}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{projectId}", projectHandler.Delete).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/invite", projectHandler.Invite).Methods("POST")
	api.HandleFunc("/projects/{projectId}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/projects/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/projects/{projectId}/snapshots/latest", projectHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	originPatterns := wsOriginPatterns(cfg.AllowedOrigins)
	r.HandleFunc("/ws/project/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, store, originPatterns)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mw.CORS(cfg.AllowedOrigins)(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty documents
		slog.Info("saving all documents...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// ensurePlayground seeds the shared anonymous project on first boot so
// snapshot saves for it satisfy the foreign keys.
func ensurePlayground(ctx context.Context, store *db.Store) error {
	_, err := store.GetProject(ctx, playgroundProjectID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const ownerID = "user_playground"
	_, err = store.CreateUser(ctx, db.CreateUserParams{
		ID:          ownerID,
		Email:       "playground@localhost",
		Password:    "!", // no login
		DisplayName: "Playground",
	})
	if err != nil && !db.IsUniqueViolation(err) {
		return fmt.Errorf("create playground user: %w", err)
	}

	_, err = store.CreateProject(ctx, db.CreateProjectParams{
		ID:      playgroundProjectID,
		Name:    "Playground",
		OwnerID: ownerID,
		Width:   1280,
		Height:  720,
	})
	if err != nil {
		// Another instance may have seeded it concurrently
		if db.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create playground project: %w", err)
	}

	err = store.AddProjectMember(ctx, db.AddProjectMemberParams{
		ProjectID: playgroundProjectID,
		UserID:    ownerID,
		Role:      db.ProjectRoleOwner,
	})
	if err != nil {
		return fmt.Errorf("add playground member: %w", err)
	}

	// Anonymous visitors land here, so seed shapes to play with rather
	// than a blank canvas.
	doc := document.NewSampleDocument(playgroundProjectID)
	doc.Project.Name = "Playground"
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal playground document: %w", err)
	}

	_, err = store.CreateSnapshot(ctx, db.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		ProjectID: playgroundProjectID,
		Version:   1,
		Document:  docJSON,
	})
	if err != nil && !db.IsUniqueViolation(err) {
		return fmt.Errorf("seed playground snapshot: %w", err)
	}

	return nil
}

// wsOriginPatterns extracts host patterns for the websocket origin
// check from the configured CORS origins.
func wsOriginPatterns(allowedOrigins string) []string {
	var patterns []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return patterns
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, store *db.Store, originPatterns []string) {
	vars := mux.Vars(r)
	projectID := vars["projectId"]

	var userID string
	var displayName string

	// Playground project allows anonymous access
	if projectID == playgroundProjectID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Auth via query param for real projects
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// Check membership
		_, err = store.GetProjectMember(r.Context(), db.GetProjectMemberParams{
			ProjectID: projectID,
			UserID:    userID,
		})
		if err != nil {
			http.Error(w, "not a project member", http.StatusForbidden)
			return
		}

		// Get user display name
		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := collab.NewClient(hub, conn, userID, displayName, projectID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
