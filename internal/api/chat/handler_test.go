package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futig/fundfacts/internal/entity"
	"github.com/go-chi/chi/v5"
	"gotest.tools/v3/assert"
)

type stubUsecase struct {
	bundle *entity.AnswerBundle
	err    error
	asked  []string
}

func (s *stubUsecase) Ask(_ context.Context, query string) (*entity.AnswerBundle, error) {
	s.asked = append(s.asked, query)
	return s.bundle, s.err
}

func (s *stubUsecase) Stats() entity.IndexStats {
	return entity.IndexStats{Chunks: 42, Dimension: 384, EmbeddingModel: "all-MiniLM-L6-v2"}
}

func newRouter(uc ChatUsecase) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(uc))
	return r
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChat(t *testing.T) {
	uc := &stubUsecase{bundle: &entity.AnswerBundle{
		Answer:      "The expense ratio is 0.74% p.a. 🙂",
		Sources:     []string{"https://files.hdfcfund.com/KIM/hdfc-mid-cap.pdf", "faq.json"},
		Suggestions: []string{},
	}}

	rec := post(t, newRouter(uc), `{"message": "What is the expense ratio of HDFC Midcap Fund?"}`)
	assert.Equal(t, rec.Code, http.StatusOK)

	var resp entity.ChatResponse
	assert.NilError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, resp.Answer, "The expense ratio is 0.74% p.a. 🙂")
	assert.DeepEqual(t, resp.SourceNames, []string{"HDFC Mid Cap Fund - KIM", "faq.json"})
	assert.DeepEqual(t, resp.Suggestions, []string{})
	assert.DeepEqual(t, uc.asked, []string{"What is the expense ratio of HDFC Midcap Fund?"})
}

func TestChatBadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":     `{"message":`,
		"empty message": `{"message": "   "}`,
		"missing field": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			uc := &stubUsecase{}
			rec := post(t, newRouter(uc), body)

			assert.Equal(t, rec.Code, http.StatusBadRequest)
			assert.Equal(t, len(uc.asked), 0)

			var resp entity.ErrorResponse
			assert.NilError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, resp.Error, "Bad Request")
		})
	}
}

func TestChatRetrievalFailure(t *testing.T) {
	uc := &stubUsecase{err: errors.Join(entity.ErrRetrieval, entity.ErrEmbedding)}
	rec := post(t, newRouter(uc), `{"message": "What is the NAV?"}`)

	assert.Equal(t, rec.Code, http.StatusInternalServerError)
	var resp entity.ErrorResponse
	assert.NilError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, resp.Message, "failed to retrieve sources")
}

func TestIndexStats(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index/stats", nil))

	assert.Equal(t, rec.Code, http.StatusOK)
	var stats entity.IndexStats
	assert.NilError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, stats.Chunks, 42)
	assert.Equal(t, stats.Dimension, 384)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&stubUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, rec.Code, http.StatusOK)
	var resp entity.HealthResponse
	assert.NilError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.DeepEqual(t, resp, entity.HealthResponse{Status: "healthy", Chunks: 42})
}
