package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/config"
	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/extract"
	"github.com/mukunthans/pdf-qa/internal/generate"
	"github.com/mukunthans/pdf-qa/internal/ingest"
	"github.com/mukunthans/pdf-qa/internal/models"
	"github.com/mukunthans/pdf-qa/internal/qa"
	"github.com/mukunthans/pdf-qa/internal/retrieval"
	"github.com/mukunthans/pdf-qa/internal/vector"
)

const uploadText = "The pump house sits at the north end of the site. " +
	"Valves are numbered clockwise from the inlet. " +
	"Valve three controls the return line. " +
	"Shut the inlet before servicing any valve."

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Embedding.Backend = "mock"
	cfg.Embedding.Dimensions = 8
	cfg.Document = config.DocumentConfig{ChunkSize: 120, ChunkOverlap: 20, BoundaryWindow: 60, MinBreakRatio: 0.5}

	provider := embedding.NewProvider(&cfg.Embedding)
	index, err := vector.NewMemoryIndex(cfg.Embedding.Dimensions)
	if err != nil {
		t.Fatal(err)
	}
	processor := ingest.NewProcessor(extract.NewExtractor(), provider, index, &cfg.Document)
	retriever := retrieval.NewRetriever(provider, index, &cfg.Retrieval,
		retrieval.WithScoreThreshold(-1))
	engine := qa.NewEngine(processor, retriever, generate.NewMockGenerator(), index)
	return NewServer(engine, processor, cfg, zap.NewNop())
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestHandleUploadDocument(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "site-notes.txt", uploadText))
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out documentResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Document == nil || out.Document.Name != "site-notes.txt" {
		t.Errorf("document: %+v", out.Document)
	}
	if out.Document.Chunks < 1 {
		t.Errorf("chunks: got %d, want >= 1", out.Document.Chunks)
	}
	if out.Index.Status != models.IndexStatusReady {
		t.Errorf("index status: got %q", out.Index.Status)
	}
}

func TestHandleUploadDocument_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "attachment", "site-notes.txt", uploadText))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleUploadDocument_NoReadableText(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "blank.txt", "   \n\t  "))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422, body: %s", w.Code, w.Body.String())
	}
}

func TestHandleAsk(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "site-notes.txt", uploadText))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: %s", w.Body.String())
	}

	body, _ := json.Marshal(models.AskRequest{Question: "Which valve controls the return line?"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	srv.handleAsk(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var answer models.Answer
	if err := json.NewDecoder(w.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	if answer.Status != models.StatusSuccess {
		t.Errorf("answer status: got %q", answer.Status)
	}
	if answer.Query != "Which valve controls the return line?" {
		t.Errorf("query echo: got %q", answer.Query)
	}
	if len(answer.ContextChunks) == 0 {
		t.Error("expected context chunks in the response")
	}
}

func TestHandleAsk_InvalidBody(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.handleAsk(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleAsk_NoDocument(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(models.AskRequest{Question: "anything?"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleAsk(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var answer models.Answer
	if err := json.NewDecoder(w.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	if answer.Status != models.StatusNoContext {
		t.Errorf("answer status: got %q", answer.Status)
	}
	if answer.Answer != retrieval.MsgNotReady {
		t.Errorf("answer: got %q", answer.Answer)
	}
}

func TestHandleGetDocument(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	w := httptest.NewRecorder()
	srv.handleGetDocument(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status before upload: got %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "site-notes.txt", uploadText))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.handleGetDocument(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status after upload: got %d", w.Code)
	}
	var out documentResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Document.Name != "site-notes.txt" || out.Index.Status != models.IndexStatusReady {
		t.Errorf("got %+v", out)
	}
}

func TestHandleClearDocument(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "site-notes.txt", uploadText))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.handleClearDocument(w, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/current", nil))
	if w.Code != http.StatusOK {
		t.Errorf("clear status: got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.handleGetDocument(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status after clear: got %d, want 404", w.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer(t)
	w := httptest.NewRecorder()
	srv.handleUploadDocument(w, multipartUpload(t, "file", "site-notes.txt", uploadText))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload failed: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.handleStatus(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Index    models.IndexInfo `json:"index"`
		Document *models.Document `json:"document"`
		Config   struct {
			ChunkSize        int     `json:"chunk_size"`
			EmbeddingBackend string  `json:"embedding_backend"`
			ScoreThreshold   float32 `json:"score_threshold"`
		} `json:"config"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Index.Status != models.IndexStatusReady || out.Index.TotalChunks < 1 {
		t.Errorf("index: %+v", out.Index)
	}
	if out.Document == nil || out.Document.Name != "site-notes.txt" {
		t.Errorf("document: %+v", out.Document)
	}
	if out.Config.ChunkSize != 120 || out.Config.EmbeddingBackend != "mock" {
		t.Errorf("config echo: %+v", out.Config)
	}
	if out.Config.ScoreThreshold != 0.3 {
		t.Errorf("score_threshold: got %v, want 0.3", out.Config.ScoreThreshold)
	}
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Routes()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status: got %d", w.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "ok" {
		t.Errorf("health body: %v", out)
	}

	body, _ := json.Marshal(models.AskRequest{Question: "routed?"})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Errorf("ask via router: got %d", w.Code)
	}
}
