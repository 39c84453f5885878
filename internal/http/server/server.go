package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"docvault/internal/config"
	"docvault/internal/http/handlers/admin"
	"docvault/internal/http/handlers/docs"
	"docvault/internal/http/handlers/folders"
	"docvault/internal/http/handlers/search"
	"docvault/internal/http/handlers/session"
	"docvault/internal/http/handlers/user"
	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"

	"github.com/gorilla/mux"
)

func StartServer(
	ctx context.Context,
	cfg *config.HTTPServer,
	log *slog.Logger,
	authService AuthService,
	documentService DocumentService,
	searchService SearchService,
	folderService FolderService,
	reindexer Reindexer,
) error {
	r := mux.NewRouter()

	r.Use(middleware.Logger(log))

	setupRoutes(r, log, authService, documentService, searchService, folderService, reindexer)

	srv := &http.Server{
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      r,
	}

	errChan := make(chan error, 1)

	go func() {
		log.Info("server started", slog.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("server closed gracefully")
			} else {
				log.Error("could not start server:", "error", err)
				errChan <- err
			}
		}
	}()
	select {
	case <-ctx.Done():
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", "error", err)
			return err
		}
		log.Info("server exited gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupRoutes(
	r *mux.Router,
	log *slog.Logger,
	auth AuthService,
	doc DocumentService,
	srch SearchService,
	folder FolderService,
	reindexer Reindexer,
) {
	// POST user
	r.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		user.Add(r.Context(), log, w, r, auth)
	}).Methods(http.MethodPost)

	// POST session
	r.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		session.Add(r.Context(), log, w, r, auth)
	}).Methods(http.MethodPost)

	// DELETE session
	r.HandleFunc("/api/auth/{token}", func(w http.ResponseWriter, r *http.Request) {
		session.Delete(r.Context(), log, w, r, mux.Vars(r)["token"], auth)
	}).Methods(http.MethodDelete)

	protected := r.NewRoute().Subrouter()

	protected.Use(middleware.Auth(log, auth))

	// POST doc
	protected.HandleFunc("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		docs.Upload(r.Context(), log, w, r, doc)
	}).Methods(http.MethodPost)

	// POST duplicate resolution
	protected.HandleFunc("/api/docs/resolve", func(w http.ResponseWriter, r *http.Request) {
		docs.ResolveDuplicate(r.Context(), log, w, r, doc)
	}).Methods(http.MethodPost)

	// GET doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.GetByID(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	// GET doc content
	protected.HandleFunc("/api/docs/{id}/content", func(w http.ResponseWriter, r *http.Request) {
		docs.Download(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	// DELETE doc by id
	protected.HandleFunc("/api/docs/{id}", func(w http.ResponseWriter, r *http.Request) {
		docs.Delete(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodDelete)

	// POST archive
	protected.HandleFunc("/api/docs/{id}/archive", func(w http.ResponseWriter, r *http.Request) {
		docs.Archive(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodPost)

	// POST restore
	protected.HandleFunc("/api/docs/{id}/restore", func(w http.ResponseWriter, r *http.Request) {
		docs.Restore(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodPost)

	// GET versions
	protected.HandleFunc("/api/docs/{id}/versions", func(w http.ResponseWriter, r *http.Request) {
		docs.Versions(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	// POST relationship
	protected.HandleFunc("/api/docs/{id}/relationships", func(w http.ResponseWriter, r *http.Request) {
		docs.CreateRelationship(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodPost)

	// GET relationships
	protected.HandleFunc("/api/docs/{id}/relationships", func(w http.ResponseWriter, r *http.Request) {
		docs.Relationships(r.Context(), log, w, r, mux.Vars(r)["id"], doc)
	}).Methods(http.MethodGet)

	// GET search
	protected.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		search.Search(r.Context(), log, w, r, srch)
	}).Methods(http.MethodGet)

	// GET suggestions
	protected.HandleFunc("/api/search/suggest", func(w http.ResponseWriter, r *http.Request) {
		search.Suggest(r.Context(), log, w, r, srch)
	}).Methods(http.MethodGet)

	// GET index stats
	protected.HandleFunc("/api/search/stats", func(w http.ResponseWriter, r *http.Request) {
		search.Stats(r.Context(), log, w, r, srch)
	}).Methods(http.MethodGet)

	// POST folder
	protected.HandleFunc("/api/folders", func(w http.ResponseWriter, r *http.Request) {
		folders.Create(r.Context(), log, w, r, folder)
	}).Methods(http.MethodPost)

	// GET folders
	protected.HandleFunc("/api/folders", func(w http.ResponseWriter, r *http.Request) {
		folders.List(r.Context(), log, w, r, folder)
	}).Methods(http.MethodGet)

	// GET folder by id
	protected.HandleFunc("/api/folders/{id}", func(w http.ResponseWriter, r *http.Request) {
		folders.Get(r.Context(), log, w, r, mux.Vars(r)["id"], folder)
	}).Methods(http.MethodGet)

	// PATCH folder
	protected.HandleFunc("/api/folders/{id}", func(w http.ResponseWriter, r *http.Request) {
		folders.Update(r.Context(), log, w, r, mux.Vars(r)["id"], folder)
	}).Methods(http.MethodPatch)

	// POST share
	protected.HandleFunc("/api/folders/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		folders.Share(r.Context(), log, w, r, mux.Vars(r)["id"], folder)
	}).Methods(http.MethodPost)

	// DELETE folder
	protected.HandleFunc("/api/folders/{id}", func(w http.ResponseWriter, r *http.Request) {
		folders.Delete(r.Context(), log, w, r, mux.Vars(r)["id"], folder)
	}).Methods(http.MethodDelete)

	// GET folder evaluation
	protected.HandleFunc("/api/folders/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
		folders.Evaluate(r.Context(), log, w, r, mux.Vars(r)["id"], folder)
	}).Methods(http.MethodGet)

	adminOnly := protected.NewRoute().Subrouter()

	adminOnly.Use(middleware.AdminOnly(log))

	// POST reindex
	adminOnly.HandleFunc("/api/admin/reindex", func(w http.ResponseWriter, r *http.Request) {
		admin.Reindex(r.Context(), log, w, r, reindexer)
	}).Methods(http.MethodPost)

	// Not allowed
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, http.StatusMethodNotAllowed, utils.KindValidation, models.ErrMethodNotAllowed.Error())
	})
}
