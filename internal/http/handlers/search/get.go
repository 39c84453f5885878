package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"docvault/internal/dto"
	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
	parseutil "docvault/internal/utils/parseLimit"
)

// Search answers GET /api/search. All filters arrive as query parameters;
// list parameters are comma-separated.
func Search(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, searcher Searcher) {
	op := pkg + "Search"

	log = log.With(slog.String("op", op))

	requester := middleware.RequesterFromContext(ctx)
	if requester == nil {
		utils.WriteJSONError(w, http.StatusForbidden, utils.KindPermission, models.ErrForbidden.Error())
		return
	}

	query, err := queryFromRequest(r)
	if err != nil {
		log.Warn("bad search query", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, err.Error())
		return
	}

	page, err := searcher.Search(ctx, requester, query)
	if err != nil {
		log.Error("search failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dto.NewSearchResponse(page))
}

// Suggest answers GET /api/search/suggest?q=prefix.
func Suggest(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, searcher Searcher) {
	op := pkg + "Suggest"

	log = log.With(slog.String("op", op))

	limit := parseutil.ParseLimit(r.URL.Query().Get("limit"))

	suggestions, err := searcher.Suggest(ctx, r.URL.Query().Get("q"), limit)
	if err != nil {
		log.Error("suggest failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

// Stats answers GET /api/search/stats.
func Stats(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, searcher Searcher) {
	op := pkg + "Stats"

	log = log.With(slog.String("op", op))

	stats, err := searcher.Stats(ctx)
	if err != nil {
		log.Error("stats failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, stats)
}

func queryFromRequest(r *http.Request) (models.SearchQuery, error) {
	values := r.URL.Query()

	query := models.SearchQuery{
		Text:        values.Get("q"),
		Types:       splitList(values.Get("types")),
		Departments: splitList(values.Get("departments")),
		Uploaders:   splitList(values.Get("uploaders")),
		Tags:        splitList(values.Get("tags")),
		Page:        parseutil.ParsePage(values.Get("page")),
		PageSize:    parseutil.ParseLimit(values.Get("page_size")),
	}

	if raw := values.Get("created_from"); raw != "" {
		from, err := parseQueryTime(raw)
		if err != nil {
			return models.SearchQuery{}, err
		}
		query.CreatedFrom = &from
	}

	if raw := values.Get("created_to"); raw != "" {
		to, err := parseQueryTime(raw)
		if err != nil {
			return models.SearchQuery{}, err
		}
		query.CreatedTo = &to
	}

	if raw := values.Get("min_confidence"); raw != "" {
		conf, err := strconv.ParseFloat(raw, 64)
		if err != nil || conf < 0 || conf > 1 {
			return models.SearchQuery{}, models.ErrInvalidParams
		}
		query.MinConfidence = &conf
	}

	if raw := values.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return models.SearchQuery{}, models.ErrInvalidParams
		}
		query.Active = &active
	}

	return query, nil
}

func parseQueryTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.ErrInvalidParams
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
