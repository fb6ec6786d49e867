// internal/handler/translation.go
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/model"
	"github.com/dangerclosesec/transpiler/internal/repository"
	"github.com/dangerclosesec/transpiler/internal/service"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// UploadField is the multipart field carrying a source file
const UploadField = "upload"

type TranslationHandler struct {
	translationService *service.TranslationService
	maxBytes           int64
}

// NewTranslationHandler creates a handler accepting sources up to maxBytes.
func NewTranslationHandler(translationService *service.TranslationService, maxBytes int) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
		maxBytes:           int64(maxBytes),
	}
}

// Routes mounts the translation endpoints
func (h *TranslationHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// StageError is the failure part of a translation response
type StageError struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind,omitempty"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type TranslationResponse struct {
	BaseResponse
	Translation *model.Translation `json:"translation"`
	Lines       []Line             `json:"lines,omitempty"`
	Error       *StageError        `json:"stage_error,omitempty"`
}

type TranslationListResponse struct {
	BaseResponse
	Translations []model.Translation `json:"translations"`
	Total        int64               `json:"total"`
}

func newTranslationResponse(t *model.Translation) TranslationResponse {
	resp := TranslationResponse{
		BaseResponse: BaseResponse{Ok: t.Succeeded()},
		Translation:  t,
	}
	if t.Succeeded() {
		resp.Lines = numberLines(t.Output)
	} else {
		resp.Error = &StageError{
			Stage:   t.ErrorStage,
			Kind:    t.ErrorKind,
			Line:    t.ErrorLine,
			Message: t.ErrorMessage,
		}
	}
	return resp
}

// Create translates a JSON body or a multipart upload
func (h *TranslationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 {
		// room for the JSON envelope or multipart framing
		r.Body = http.MaxBytesReader(w, r.Body, 2*h.maxBytes+64<<10)
	}
	defer r.Body.Close()

	input, err := h.readInput(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, domain.ErrUnsupportedFile):
			respondWithError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		}
		return
	}

	input.RequestID = chmw.GetReqID(r.Context())
	input.ClientIP = r.RemoteAddr
	input.UserAgent = r.UserAgent()

	record, err := h.translationService.Translate(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Translation error", "error", err, "requestID", input.RequestID)
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUnsupportedFile):
			respondWithError(w, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, domain.ErrSourceTooLarge):
			respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	code := http.StatusCreated
	if !record.Succeeded() {
		code = http.StatusUnprocessableEntity
	}
	respondWithJSON(w, code, newTranslationResponse(record))
}

// readInput decodes either a multipart upload or a JSON body
func (h *TranslationHandler) readInput(r *http.Request) (service.TranslateInput, error) {
	var input service.TranslateInput

	if !isMultipart(r) {
		err := json.NewDecoder(r.Body).Decode(&input)
		return input, err
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return input, err
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return input, err
	}
	defer file.Close()

	if !isJavaFile(header.Filename) {
		return input, domain.ErrUnsupportedFile
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return input, err
	}

	input.SourceName = header.Filename
	input.Source = string(data)
	if v := r.FormValue("check"); v != "" {
		check, err := strconv.ParseBool(v)
		if err != nil {
			return input, err
		}
		input.Check = &check
	}
	return input, nil
}

// List returns stored translations filtered by query parameters
func (h *TranslationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := repository.QueryParams{
		Status:       q.Get("status"),
		ErrorStage:   q.Get("stage"),
		SourceName:   q.Get("source_name"),
		SourceDigest: q.Get("digest"),
	}

	if startTimeStr := q.Get("start_time"); startTimeStr != "" {
		if startTime, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			params.StartTime = startTime
		}
	}
	if endTimeStr := q.Get("end_time"); endTimeStr != "" {
		if endTime, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			params.EndTime = endTime
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	items, total, err := h.translationService.List(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "Translation list error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve translations")
		return
	}

	if items == nil {
		items = []model.Translation{}
	}
	respondWithJSON(w, http.StatusOK, TranslationListResponse{
		BaseResponse: BaseResponse{Ok: true},
		Translations: items,
		Total:        total,
	})
}

// Get returns one stored translation
func (h *TranslationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid translation ID format")
		return
	}

	record, err := h.translationService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Translation not found")
			return
		}
		slog.ErrorContext(r.Context(), "Translation lookup error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve translation")
		return
	}

	respondWithJSON(w, http.StatusOK, newTranslationResponse(record))
}
