// Package api exposes the HTTP surface of the portfolio backend: the public
// gallery content endpoints the site renders from, plus the admin gate.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/config"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/model"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/queue"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/repository"
	"github.com/mengleangyoeun/rithychanvirak-sub001/internal/signing"
)

// adminSubject is the signing subject for admin session tokens. There is a
// single admin identity; the gate only decides logged-in or not.
const adminSubject = "admin"

// Server exposes HTTP endpoints for the gallery content and admin mutations.
type Server struct {
	cfg         *config.Config
	photos      *repository.PhotoRepository
	collections *repository.CollectionRepository
	videos      *repository.VideoRepository
	site        *repository.SiteRepository
	queue       *asynq.Client
	signer      *signing.Signer
	server      *http.Server
}

// New constructs a Server. The asynq client may be nil when background
// enrichment is not wired (photos are then left for the backfill command).
func New(cfg *config.Config, repos Repositories, queueClient *asynq.Client, signer *signing.Signer) *Server {
	return &Server{
		cfg:         cfg,
		photos:      repos.Photos,
		collections: repos.Collections,
		videos:      repos.Videos,
		site:        repos.Site,
		queue:       queueClient,
		signer:      signer,
	}
}

// Repositories bundles the content-store handles the server needs.
type Repositories struct {
	Photos      *repository.PhotoRepository
	Collections *repository.CollectionRepository
	Videos      *repository.VideoRepository
	Site        *repository.SiteRepository
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/photos", s.handlePhotos)
	mux.HandleFunc("/api/photos/", s.handlePhoto)
	mux.HandleFunc("/api/collections", s.handleCollections)
	mux.HandleFunc("/api/collections/", s.handleCollection)
	mux.HandleFunc("/api/videos", s.handleVideos)
	mux.HandleFunc("/api/videos/", s.handleVideo)
	mux.HandleFunc("/api/site/", s.handleSiteSection)
	mux.HandleFunc("/api/admin/login", s.handleLogin)
	mux.HandleFunc("/api/admin/photos", s.requireAdmin(s.handleCreatePhoto))
	mux.HandleFunc("/api/admin/site/", s.requireAdmin(s.handleUpsertSection))
	s.server = &http.Server{
		Addr:    s.cfg.Address,
		Handler: corsMiddleware(loggingMiddleware(mux)),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	log.Printf("api listening on %s", s.cfg.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePhotos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	opts := repository.ListOptions{
		CollectionID: r.URL.Query().Get("collection"),
		FeaturedOnly: r.URL.Query().Get("featured") == "true",
	}
	photos, err := s.photos.List(r.Context(), opts)
	if err != nil {
		log.Printf("list photos: %v", err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, photos)
}

func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/api/photos/")
	if key == "" || strings.Contains(key, "/") {
		http.NotFound(w, r)
		return
	}
	photo, err := s.photos.Get(r.Context(), key)
	if errors.Is(err, repository.ErrNotFound) {
		photo, err = s.photos.GetBySlug(r.Context(), key)
	}
	if err != nil {
		http.Error(w, "photo not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, photo)
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	collections, err := s.collections.List(r.Context())
	if err != nil {
		log.Printf("list collections: %v", err)
		http.Error(w, "failed to list collections", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, collections)
}

// collectionView is a collection plus its photos, the shape a gallery page
// renders from.
type collectionView struct {
	model.Collection
	Photos []model.Photo `json:"photos"`
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/collections/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	collection, err := s.collections.GetBySlug(r.Context(), slug)
	if err != nil {
		http.Error(w, "collection not found", http.StatusNotFound)
		return
	}
	photos, err := s.photos.List(r.Context(), repository.ListOptions{CollectionID: collection.ID})
	if err != nil {
		log.Printf("list collection photos: %v", err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, collectionView{Collection: *collection, Photos: photos})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	videos, err := s.videos.List(r.Context())
	if err != nil {
		log.Printf("list videos: %v", err)
		http.Error(w, "failed to list videos", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, videos)
}

func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}
	video, err := s.videos.GetBySlug(r.Context(), slug)
	if err != nil {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, video)
}

func (s *Server) handleSiteSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/api/site/")
	if !model.KnownSection(key) {
		http.NotFound(w, r)
		return
	}
	section, err := s.site.Section(r.Context(), key)
	if err != nil {
		http.Error(w, "section not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, section)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.cfg.AdminPassword == "" {
		http.Error(w, "admin access disabled", http.StatusForbidden)
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Password != s.cfg.AdminPassword {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	respondJSON(w, http.StatusOK, map[string]string{
		"token":   s.signer.IssueToken(adminSubject, expiresAt),
		"expires": expiresAt.UTC().Format(time.RFC3339),
	})
}

// requireAdmin guards admin mutations behind a bearer token check.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !s.signer.VerifyToken(adminSubject, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// createPhotoRequest is the admin payload for registering an already uploaded
// asset as a photo.
type createPhotoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CollectionID string `json:"collectionId"`
	MediaAssetID string `json:"mediaAssetId"`
	Featured     bool   `json:"featured"`
	SortOrder    int    `json:"sortOrder"`
}

func (s *Server) handleCreatePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req createPhotoRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	photo := &model.Photo{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		CollectionID: req.CollectionID,
		MediaAssetID: req.MediaAssetID,
		Featured:     req.Featured,
		SortOrder:    req.SortOrder,
	}
	if err := s.photos.Create(r.Context(), photo); err != nil {
		log.Printf("create photo: %v", err)
		http.Error(w, "failed to create photo", http.StatusInternalServerError)
		return
	}
	if s.queue != nil && photo.MediaAssetID != "" {
		payload := queue.EnrichPayload{PhotoID: photo.ID, MediaAssetID: photo.MediaAssetID}
		if err := queue.EnqueueEnrich(r.Context(), s.queue, payload); err != nil {
			// The photo exists either way; the backfill command will pick it up.
			log.Printf("enqueue enrich for %s: %v", photo.ID, err)
		}
	}
	respondJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleUpsertSection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, "/api/admin/site/")
	if !model.KnownSection(key) {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 256<<10))
	if err != nil || !json.Valid(body) {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := s.site.UpsertSection(r.Context(), key, body); err != nil {
		log.Printf("upsert section %s: %v", key, err)
		http.Error(w, "failed to save section", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"key": key, "status": "saved"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}
