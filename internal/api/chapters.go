package api

import (
	"net/http"
)

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
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
	chapters, err := s.store.ChaptersByDocument(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list chapters")
		return
	}
	views := make([]chapterView, 0, len(chapters))
	for _, chapter := range chapters {
		views = append(views, chapterToView(chapter))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTriggerSegment(w http.ResponseWriter, r *http.Request) {
	s.triggerChapterStage(w, r, "segment", s.pipeline.TriggerSegment)
}

func (s *Server) handleTriggerGenerate(w http.ResponseWriter, r *http.Request) {
	s.triggerChapterStage(w, r, "generate", s.pipeline.TriggerGenerate)
}

func (s *Server) triggerChapterStage(w http.ResponseWriter, r *http.Request, stage string, trigger func(int64) string) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	chapter, err := s.store.GetChapter(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get chapter")
		return
	}
	if chapter == nil {
		writeError(w, http.StatusNotFound, "chapter not found")
		return
	}
	writeAccepted(w, stage, trigger(id))
}

func (s *Server) handleListSegments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid chapter id")
		return
	}
	chapter, err := s.store.GetChapter(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get chapter")
		return
	}
	if chapter == nil {
		writeError(w, http.StatusNotFound, "chapter not found")
		return
	}
	segments, err := s.store.SegmentsByChapter(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list segments")
		return
	}
	views := make([]segmentView, 0, len(segments))
	for _, segment := range segments {
		views = append(views, segmentToView(segment))
	}
	writeJSON(w, http.StatusOK, views)
}
