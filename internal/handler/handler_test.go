package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dangerclosesec/transpiler"
	"github.com/dangerclosesec/transpiler/internal/auth"
	"github.com/dangerclosesec/transpiler/internal/handler"
	"github.com/dangerclosesec/transpiler/internal/middleware"
	"github.com/dangerclosesec/transpiler/internal/repository"
	"github.com/dangerclosesec/transpiler/internal/service"
	"github.com/dangerclosesec/transpiler/translator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `public class Main {
    public static void main(String[] args) {
        boolean b = true;
        System.out.println(b);
    }
}`

type translationBody struct {
	Ok          bool `json:"ok"`
	Translation struct {
		ID         uuid.UUID `json:"id"`
		SourceName string    `json:"source_name"`
		Status     string    `json:"status"`
	} `json:"translation"`
	Lines      []handler.Line      `json:"lines"`
	StageError *handler.StageError `json:"stage_error"`
}

type testServer struct {
	router http.Handler
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tr, err := translator.New(transpiler.NewConfig(context.Background(), nil))
	require.NoError(t, err)

	cache := service.NewCacheService(service.CacheConfig{TTL: time.Minute, CleanupFreq: time.Minute})
	t.Cleanup(cache.Close)

	translations := service.NewTranslationService(repository.NewMemoryTranslationRepository(0), tr, cache, 1<<16, nil)
	grammars := service.NewGrammarService(tr, nil, nil, nil)
	tokens := auth.NewTokenManager("test_secret", time.Hour)

	th := handler.NewTranslationHandler(translations, 1<<16)
	gh := handler.NewGrammarHandler(grammars)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/translations", th.Routes)
		r.Get("/grammar", gh.Show)
		r.With(middleware.RequireScope(tokens, auth.ScopeGrammarAdmin)).Put("/grammar", gh.Update)
	})

	return &testServer{router: r, tokens: tokens}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(t *testing.T, body interface{}) (*httptest.ResponseRecorder, translationBody) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/translations", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req)

	var out translationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func upload(t *testing.T, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(handler.UploadField, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/translations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateTranslationJSON(t *testing.T) {
	s := newTestServer(t)

	rec, out := s.postJSON(t, map[string]interface{}{"source_name": "Main.java", "source": program})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, out.Ok)
	assert.Equal(t, "Main.java", out.Translation.SourceName)
	assert.Nil(t, out.StageError)
	assert.Equal(t, []handler.Line{
		{Index: 1, Line: "#include <iostream>"},
		{Index: 2, Line: ""},
		{Index: 3, Line: "void main(int argc, char *argv[])"},
		{Index: 4, Line: "{"},
		{Index: 5, Line: "    bool b = true;"},
		{Index: 6, Line: "    std::cout << b << \"\\n\";"},
		{Index: 7, Line: "}"},
	}, out.Lines)
}

func TestCreateTranslationStageError(t *testing.T) {
	s := newTestServer(t)

	src := "public class Main {\n  public static void main(String[] args) {\n    int a = x;\n  }\n}"
	rec, out := s.postJSON(t, map[string]interface{}{"source": src})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, out.Ok)
	require.NotNil(t, out.StageError)
	assert.Equal(t, "semantic", out.StageError.Stage)
	assert.Equal(t, 3, out.StageError.Line)
	assert.Empty(t, out.Lines)
}

func TestCreateTranslationBadRequests(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/translations", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, s.do(req).Code)

	rec, _ := s.postJSON(t, map[string]interface{}{"source": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.postJSON(t, map[string]interface{}{"source_name": "main.py", "source": "x"})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCreateTranslationUpload(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(upload(t, "Main.java", program))
	require.Equal(t, http.StatusCreated, rec.Code)

	var out translationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Main.java", out.Translation.SourceName)
	assert.NotEmpty(t, out.Lines)

	rec = s.do(upload(t, "notes.txt", program))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestListAndGetTranslations(t *testing.T) {
	s := newTestServer(t)

	_, created := s.postJSON(t, map[string]interface{}{"source": program})
	s.postJSON(t, map[string]interface{}{"source": "public class Main {\n  #\n}"})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/translations?status=failed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Ok           bool `json:"ok"`
		Total        int  `json:"total"`
		Translations []struct {
			ErrorStage string `json:"error_stage"`
		} `json:"translations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.True(t, list.Ok)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Translations, 1)
	assert.Equal(t, "lexical", list.Translations[0].ErrorStage)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/translations/"+created.Translation.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got translationBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.Translation.ID, got.Translation.ID)
	assert.Equal(t, created.Lines, got.Lines)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/translations/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/translations/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrammarEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/grammar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var shown struct {
		Ok      bool   `json:"ok"`
		Version int    `json:"version"`
		Start   string `json:"start"`
		Text    string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shown))
	assert.True(t, shown.Ok)
	assert.Equal(t, "<program>", shown.Start)
	assert.Contains(t, shown.Text, "<program> ->")

	body := `{"text": "<program> -> <class>\n<class> -> class"}`
	req := httptest.NewRequest(http.MethodPut, "/api/grammar", strings.NewReader(body))
	assert.Equal(t, http.StatusUnauthorized, s.do(req).Code)

	token, err := s.tokens.Generate("ops", auth.ScopeGrammarAdmin)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPut, "/api/grammar", strings.NewReader(`{"text": "<program> broken"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_grammar")

	req = httptest.NewRequest(http.MethodPut, "/api/grammar", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		Ok      bool `json:"ok"`
		Version int  `json:"version"`
		Changed bool `json:"changed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Changed)
	assert.Equal(t, 1, updated.Version)

	_, out := s.postJSON(t, map[string]interface{}{"source": program})
	require.NotNil(t, out.StageError)
	assert.Equal(t, "syntax", out.StageError.Stage)
}
