// internal/service/translation.go
package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dangerclosesec/transpiler/internal/domain"
	"github.com/dangerclosesec/transpiler/internal/model"
	"github.com/dangerclosesec/transpiler/internal/repository"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

const cachePrefix = "translation:"

// TranslationService runs uploaded sources through the pipeline and keeps
// the history of every run.
type TranslationService struct {
	repo       repository.TranslationRepositoryIface
	translator *translator.Translator
	cache      *CacheService
	maxBytes   int
	logger     *slog.Logger
	validate   *validator.Validate
}

func NewTranslationService(
	repo repository.TranslationRepositoryIface,
	tr *translator.Translator,
	cache *CacheService,
	maxBytes int,
	logger *slog.Logger,
) *TranslationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslationService{
		repo:       repo,
		translator: tr,
		cache:      cache,
		maxBytes:   maxBytes,
		logger:     logger,
		validate:   validator.New(),
	}
}

type TranslateInput struct {
	SourceName string `json:"source_name" validate:"omitempty,max=255"`
	Source     string `json:"source" validate:"required"`
	Check      *bool  `json:"check"`

	RequestID string `json:"-"`
	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

// ShouldCheck reports whether the semantic analyzer runs. It defaults to
// true.
func (in TranslateInput) ShouldCheck() bool {
	return in.Check == nil || *in.Check
}

// outcome is the cached part of a translation record.
type outcome struct {
	Output       string        `json:"output"`
	Status       string        `json:"status"`
	ErrorStage   string        `json:"error_stage"`
	ErrorKind    string        `json:"error_kind"`
	ErrorLine    int           `json:"error_line"`
	ErrorMessage string        `json:"error_message"`
	Stats        model.JSONMap `json:"stats"`
}

// Translate validates the input, runs the pipeline (or reuses a cached
// outcome for the same source, grammar and check flag) and stores the
// record. Pipeline failures are part of the record, not an error.
func (s *TranslationService) Translate(ctx context.Context, input TranslateInput) (*model.Translation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if input.SourceName != "" && !strings.EqualFold(filepath.Ext(input.SourceName), translator.SourceExtension) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFile, input.SourceName)
	}

	if s.maxBytes > 0 && len(input.Source) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrSourceTooLarge, len(input.Source), s.maxBytes)
	}

	check := input.ShouldCheck()
	digest := Digest(s.translator.Grammar().String(), input.Source, check)

	var out outcome
	cached := true
	err := s.cache.GetOrSet(ctx, cachePrefix+digest, &out, func() (interface{}, error) {
		cached = false
		return s.run(input.Source, check)
	})
	if err != nil {
		return nil, fmt.Errorf("translating source: %w", err)
	}

	record := &model.Translation{
		ID:           uuid.New(),
		SourceName:   input.SourceName,
		Source:       input.Source,
		SourceDigest: digest,
		Output:       out.Output,
		Checked:      check,
		Status:       out.Status,
		ErrorStage:   out.ErrorStage,
		ErrorKind:    out.ErrorKind,
		ErrorLine:    out.ErrorLine,
		ErrorMessage: out.ErrorMessage,
		Stats:        out.Stats,
		RequestID:    input.RequestID,
		ClientIP:     input.ClientIP,
		UserAgent:    input.UserAgent,
	}
	if record.Stats == nil {
		record.Stats = model.JSONMap{}
	}
	record.Stats["cached"] = cached

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("storing translation: %w", err)
	}

	s.logger.InfoContext(ctx, "translation recorded",
		"id", record.ID,
		"status", record.Status,
		"cached", cached,
		"requestID", input.RequestID,
	)
	return record, nil
}

// run executes the pipeline. Only errors that are not stage errors are
// returned; a stage error becomes a failed outcome.
func (s *TranslationService) run(src string, check bool) (*outcome, error) {
	res, err := s.translator.Translate(src, check)
	if err != nil {
		se := translator.Describe(err)
		if se == nil {
			return nil, err
		}
		return &outcome{
			Status:       model.StatusFailed,
			ErrorStage:   string(se.Stage),
			ErrorKind:    se.Kind,
			ErrorLine:    se.Line,
			ErrorMessage: se.Error(),
			Stats:        model.JSONMap{},
		}, nil
	}

	return &outcome{
		Output: res.Output,
		Status: model.StatusSuccess,
		Stats: model.JSONMap{
			"tokens":      res.Tokens,
			"sets":        res.Chart.Sets,
			"states":      res.Chart.States,
			"lex_us":      res.Durations.Lex.Microseconds(),
			"parse_us":    res.Durations.Parse.Microseconds(),
			"check_us":    res.Durations.Check.Microseconds(),
			"generate_us": res.Durations.Generate.Microseconds(),
		},
	}, nil
}

// Get returns a stored translation
func (s *TranslationService) Get(ctx context.Context, id uuid.UUID) (*model.Translation, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("getting translation: %w", err)
	}
	return t, nil
}

// List returns a page of stored translations and the total match count
func (s *TranslationService) List(ctx context.Context, params repository.QueryParams) ([]model.Translation, int64, error) {
	items, total, err := s.repo.Query(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("listing translations: %w", err)
	}
	return items, total, nil
}

// Digest identifies a source under a grammar and check mode
func Digest(grammarText, src string, check bool) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(grammarText))
	h.Write([]byte{0})
	if check {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write([]byte(src))
	return hex.EncodeToString(h.Sum(nil))
}
