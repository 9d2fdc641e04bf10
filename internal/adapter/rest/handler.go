package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jyokotori/neko-words/internal/adapter/mapping"
	"github.com/jyokotori/neko-words/internal/entity"
	"github.com/jyokotori/neko-words/internal/repository"
	"github.com/jyokotori/neko-words/internal/usecase"
	"github.com/jyokotori/neko-words/pkg/filterexpr"
)

const _maxBodyBytes = 1 << 16

// Handler serves the review and word endpoints.
type Handler struct {
	reviews usecase.ReviewUsecase
	words   usecase.WordUsecase
	logger  logrus.FieldLogger
}

func NewHandler(reviews usecase.ReviewUsecase, words usecase.WordUsecase, logger logrus.FieldLogger) *Handler {
	return &Handler{reviews: reviews, words: words, logger: logger}
}

// Routes mounts every endpoint under prefix (for example "/api/v1").
func (h *Handler) Routes(prefix string) *http.ServeMux {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.welcome)
	mux.HandleFunc("GET "+prefix+"/reviews/due", h.dueReviews)
	mux.HandleFunc("POST "+prefix+"/reviews/{id}/log", h.logReview)
	mux.HandleFunc("POST "+prefix+"/reviews/{id}/undo", h.undoReview)
	mux.HandleFunc("POST "+prefix+"/words/", h.addWord)
	mux.HandleFunc("GET "+prefix+"/words/{id}", h.getWord)
	return mux
}

func (h *Handler) welcome(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the NekoWords API"})
}

// dueFilterSchema lists the fields accepted by ?filter=, for example
// word.startsWith('re') && streak <= 2.
var dueFilterSchema = filterexpr.Schema{
	Fields: map[string]filterexpr.FieldRule{
		"word": {
			Kind: filterexpr.KindString,
			Ops: map[filterexpr.Op]string{
				filterexpr.OpSW: "WordPrefix",
				filterexpr.OpIN: "Words",
			},
		},
		"streak": {
			Kind: filterexpr.KindNumber,
			Ops:  map[filterexpr.Op]string{filterexpr.OpLTE: "MaxStreak"},
		},
		"ease": {
			Kind: filterexpr.KindNumber,
			Ops:  map[filterexpr.Op]string{filterexpr.OpLTE: "MaxEase"},
		},
	},
}

func (h *Handler) dueReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var query repository.DueQuery
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		query.Limit = n
	}
	if raw := q.Get("language"); raw != "" {
		query.Language = entity.ParseLanguage(raw)
		if query.Language == entity.LanguageUnspecified {
			respondWithError(w, http.StatusBadRequest, "unsupported language "+strconv.Quote(raw))
			return
		}
	}
	if err := filterexpr.Bind(q.Get("filter"), &query, dueFilterSchema); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.reviews.Due(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapping.ToDueReviews(items))
}

func (h *Handler) logReview(w http.ResponseWriter, r *http.Request) {
	var req mapping.LogRequest
	if !h.decode(w, r, &req) {
		return
	}
	grade, err := entity.ParseGrade(req.Grade)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	review, err := h.reviews.Log(r.Context(), r.PathValue("id"), grade)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapping.LogResponse{Status: "ok", NextReview: review.NextReviewAt})
}

func (h *Handler) undoReview(w http.ResponseWriter, r *http.Request) {
	_, grade, err := h.reviews.Undo(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapping.UndoResponse{Status: "ok", UndoneGrade: grade.String()})
}

func (h *Handler) addWord(w http.ResponseWriter, r *http.Request) {
	var req mapping.AddWordRequest
	if !h.decode(w, r, &req) {
		return
	}
	word, err := h.words.Add(r.Context(), req.Word, entity.Language(req.Language))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, mapping.ToWord(word))
}

func (h *Handler) getWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.words.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, mapping.ToWord(word))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, _maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := mapping.ToHTTPStatus(err)
	msg := err.Error()
	switch {
	case errors.Is(err, entity.ErrDuplicateWord):
		msg = usecase.FailureMessage(err)
	case code == http.StatusInternalServerError:
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = "internal server error"
	}
	respondWithError(w, code, msg)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, mapping.ErrorResponse{Detail: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
