package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fablecast/internal/logging"
)

// maxUploadBytes bounds document uploads; source texts are small compared to
// the audio they produce.
const maxUploadBytes = 64 << 20

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	author := strings.TrimSpace(r.FormValue("author"))

	destPath := filepath.Join(s.cfg.Paths.UploadDir, name)
	dest, err := os.Create(destPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store upload")
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "store upload")
		return
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "store upload")
		return
	}

	doc, err := s.store.CreateDocument(r.Context(), title, author, destPath)
	if err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "create document")
		return
	}
	s.logger.Info("document uploaded",
		logging.Int64(logging.FieldDocumentID, doc.ID),
		logging.String("file", name))

	// mode=produce chains the full production run; mode=parse just parses.
	var correlationID string
	switch strings.TrimSpace(r.FormValue("mode")) {
	case "produce":
		correlationID = s.pipeline.TriggerProduce(doc.ID)
	case "parse", "":
		correlationID = s.pipeline.TriggerParse(doc.ID)
	case "none":
	default:
		writeError(w, http.StatusBadRequest, "mode must be parse, produce, or none")
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Document      documentView `json:"document"`
		CorrelationID string       `json:"correlation_id,omitempty"`
	}{Document: documentToView(doc), CorrelationID: correlationID})
}

// maxCoverBytes bounds cover image uploads.
const maxCoverBytes = 8 << 20

var coverExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// handleUploadCover stores a cover image for the document and records its
// path on the row. A re-upload replaces the previous cover file.
func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverBytes)
	if err := r.ParseMultipartForm(maxCoverBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := coverExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest, "cover must be a jpg, png, or webp image")
		return
	}

	destPath := filepath.Join(s.cfg.Paths.CoverDir, fmt.Sprintf("document_%d%s", id, ext))
	dest, err := os.Create(destPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store cover")
		return
	}
	if _, err := io.Copy(dest, file); err != nil {
		dest.Close()
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "store cover")
		return
	}
	if err := dest.Close(); err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "store cover")
		return
	}

	if doc.CoverPath != "" && doc.CoverPath != destPath {
		if err := os.Remove(doc.CoverPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("remove previous cover", logging.Error(err))
		}
	}

	if err := s.store.UpdateDocumentMetadata(r.Context(), id, doc.Title, doc.Author, destPath); err != nil {
		os.Remove(destPath)
		writeError(w, http.StatusInternalServerError, "update document")
		return
	}
	s.logger.Info("cover uploaded",
		logging.Int64(logging.FieldDocumentID, id),
		logging.String("file", filepath.Base(destPath)))

	doc, err = s.store.GetDocument(r.Context(), id)
	if err != nil || doc == nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	writeJSON(w, http.StatusOK, documentToView(doc))
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.store.ListDocuments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list documents")
		return
	}
	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, documentToView(doc))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeJSON(w, http.StatusOK, documentToView(doc))
}

// handleDeleteDocument removes the document row (chapters, characters, and
// segments cascade) plus the uploaded source, the cover, and the audio tree.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	deleted, err := s.store.DeleteDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete document")
		return
	}
	if deleted {
		if doc.SourcePath != "" {
			if err := os.Remove(doc.SourcePath); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("remove source file", logging.Error(err))
			}
		}
		if doc.CoverPath != "" {
			if err := os.Remove(doc.CoverPath); err != nil && !os.IsNotExist(err) {
				s.logger.Warn("remove cover file", logging.Error(err))
			}
		}
		audioTree := filepath.Join(s.cfg.Paths.AudioDir, fmt.Sprintf("document_%d", id))
		if err := os.RemoveAll(audioTree); err != nil {
			s.logger.Warn("remove audio tree", logging.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (s *Server) handleTriggerParse(w http.ResponseWriter, r *http.Request) {
	s.triggerDocumentStage(w, r, "parse", s.pipeline.TriggerParse)
}

func (s *Server) handleTriggerAnalyze(w http.ResponseWriter, r *http.Request) {
	s.triggerDocumentStage(w, r, "analyze", s.pipeline.TriggerAnalyze)
}

func (s *Server) handleTriggerProduce(w http.ResponseWriter, r *http.Request) {
	s.triggerDocumentStage(w, r, "produce", s.pipeline.TriggerProduce)
}

func (s *Server) triggerDocumentStage(w http.ResponseWriter, r *http.Request, stage string, trigger func(int64) string) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	writeAccepted(w, stage, trigger(id))
}
