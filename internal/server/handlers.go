package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mukunthans/pdf-qa/internal/embedding"
	"github.com/mukunthans/pdf-qa/internal/extract"
	"github.com/mukunthans/pdf-qa/internal/models"
)

// documentResponse pairs the loaded document with the state of its index.
type documentResponse struct {
	Document *models.Document `json:"document"`
	Index    models.IndexInfo `json:"index"`
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.config.Server.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	s.logger.Debug("upload request",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(content)))

	doc, err := s.processor.ProcessBytes(r.Context(), content, header.Filename)
	if err != nil {
		s.logger.Error("document processing failed",
			zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, processingStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, documentResponse{
		Document: doc,
		Index:    s.engine.Info(),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc := s.engine.Document()
	if doc == nil {
		s.respondError(w, http.StatusNotFound, "no document loaded")
		return
	}
	s.respondJSON(w, http.StatusOK, documentResponse{
		Document: doc,
		Index:    s.engine.Info(),
	})
}

func (s *Server) handleClearDocument(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("clear document request")
	s.engine.Clear()
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ask request", zap.String("question", req.Question), zap.Int("top_k", req.TopK))

	answer, err := s.engine.Ask(r.Context(), &req)
	if err != nil {
		s.logger.Error("ask failed", zap.Error(err))
		s.respondError(w, processingStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, answer)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"index": s.engine.Info(),
		"config": map[string]interface{}{
			"chunk_size":           s.config.Document.ChunkSize,
			"chunk_overlap":        s.config.Document.ChunkOverlap,
			"embedding_backend":    s.config.Embedding.Backend,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"top_k":                s.config.Retrieval.TopK,
			"score_threshold":      s.config.Retrieval.ScoreThresholdOrDefault(),
			"generation_model":     s.config.Generation.Model,
		},
	}
	if doc := s.engine.Document(); doc != nil {
		resp["document"] = doc
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// processingStatusCode maps pipeline errors onto HTTP status codes: unusable
// input is the client's problem, an unloadable model means the service
// cannot work right now.
func processingStatusCode(err error) int {
	var modelErr *embedding.ModelLoadError
	if errors.As(err, &modelErr) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, extract.ErrPasswordProtected) || errors.Is(err, extract.ErrNoReadableText) {
		return http.StatusUnprocessableEntity
	}
	var pageErr *extract.PageError
	if errors.As(err, &pageErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
