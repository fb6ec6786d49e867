// internal/handler/grammar.go
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/middleware"
	"github.com/dangerclosesec/transpiler/internal/service"
	chmw "github.com/go-chi/chi/v5/middleware"
)

type GrammarHandler struct {
	grammarService *service.GrammarService
}

func NewGrammarHandler(grammarService *service.GrammarService) *GrammarHandler {
	return &GrammarHandler{
		grammarService: grammarService,
	}
}

type GrammarResponse struct {
	BaseResponse
	*service.GrammarOutput
}

type GrammarUpdateResponse struct {
	BaseResponse
	*service.GrammarUpdateOutput
}

// Show returns the active grammar
func (h *GrammarHandler) Show(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, GrammarResponse{
		BaseResponse:  BaseResponse{Ok: true},
		GrammarOutput: h.grammarService.Current(),
	})
}

// Update replaces the active grammar
func (h *GrammarHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.GrammarUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if input.Description == "" {
		input.Description = "updated by " + middleware.Subject(r.Context())
	}

	out, err := h.grammarService.Update(r.Context(), input)
	if err != nil {
		slog.ErrorContext(r.Context(), "Grammar update error", "error", err, "requestID", chmw.GetReqID(r.Context()))
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "Grammar text is required")
		case errors.Is(err, domain.ErrInvalidGrammar):
			respondWithCode(w, http.StatusBadRequest, "invalid_grammar", err.Error())
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, GrammarUpdateResponse{
		BaseResponse:        BaseResponse{Ok: true},
		GrammarUpdateOutput: out,
	})
}
