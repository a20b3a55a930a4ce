package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fablecast/internal/library"
	"fablecast/internal/synthesis"
	"fablecast/internal/testsupport"
	"fablecast/internal/voice"
)

type fakePipeline struct {
	parsed    []int64
	analyzed  []int64
	segmented []int64
	generated []int64
	produced  []int64
}

func (p *fakePipeline) TriggerParse(id int64) string {
	p.parsed = append(p.parsed, id)
	return "corr-parse"
}

func (p *fakePipeline) TriggerAnalyze(id int64) string {
	p.analyzed = append(p.analyzed, id)
	return "corr-analyze"
}

func (p *fakePipeline) TriggerSegment(id int64) string {
	p.segmented = append(p.segmented, id)
	return "corr-segment"
}

func (p *fakePipeline) TriggerGenerate(id int64) string {
	p.generated = append(p.generated, id)
	return "corr-generate"
}

func (p *fakePipeline) TriggerProduce(id int64) string {
	p.produced = append(p.produced, id)
	return "corr-produce"
}

type fakeVoiceLister struct {
	voices []synthesis.VoiceInfo
	err    error
}

func (f *fakeVoiceLister) ListVoices(ctx context.Context) ([]synthesis.VoiceInfo, error) {
	return f.voices, f.err
}

func (f *fakeVoiceLister) Synthesize(ctx context.Context, text, voiceID, destPath string) error {
	return errors.New("not implemented")
}

type fixture struct {
	server   *Server
	store    *library.Store
	pipeline *fakePipeline
	synth    *fakeVoiceLister
	audioDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := testsupport.MustOpenStore(t, cfg)
	pipeline := &fakePipeline{}
	synth := &fakeVoiceLister{err: errors.New("provider down")}
	server := NewServer(cfg, store, pipeline, synth, voice.NewRegistry(), nil)
	return &fixture{server: server, store: store, pipeline: pipeline, synth: synth, audioDir: cfg.Paths.AudioDir}
}

func (f *fixture) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(rec.Body.Bytes(), &value); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return value
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, fileContent string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(part, fileContent); err != nil {
		t.Fatalf("write file part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUploadDocumentTriggersParse(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartUpload(t, map[string]string{"author": "Dumas"}, "monte-cristo.txt", "Chapter text")

	rec := f.do(t, http.MethodPost, "/api/documents", body, contentType)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[struct {
		Document      documentView `json:"document"`
		CorrelationID string       `json:"correlation_id"`
	}](t, rec)
	if resp.Document.Title != "monte-cristo" {
		t.Errorf("title = %q, want filename stem", resp.Document.Title)
	}
	if resp.Document.Author != "Dumas" {
		t.Errorf("author = %q", resp.Document.Author)
	}
	if resp.CorrelationID != "corr-parse" {
		t.Errorf("correlation id = %q", resp.CorrelationID)
	}
	if len(f.pipeline.parsed) != 1 || f.pipeline.parsed[0] != resp.Document.ID {
		t.Errorf("parse trigger calls = %v", f.pipeline.parsed)
	}

	doc, err := f.store.GetDocument(context.Background(), resp.Document.ID)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v, %v", doc, err)
	}
	content, err := os.ReadFile(doc.SourcePath)
	if err != nil {
		t.Fatalf("read stored upload: %v", err)
	}
	if string(content) != "Chapter text" {
		t.Errorf("stored content = %q", content)
	}
}

func TestUploadDocumentProduceMode(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartUpload(t, map[string]string{"mode": "produce", "title": "Custom"}, "book.txt", "text")

	rec := f.do(t, http.MethodPost, "/api/documents", body, contentType)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(f.pipeline.produced) != 1 {
		t.Errorf("produce trigger calls = %v", f.pipeline.produced)
	}
	if len(f.pipeline.parsed) != 0 {
		t.Errorf("parse should not run in produce mode")
	}
}

func TestUploadDocumentRejectsMissingFile(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("title", "No file"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	writer.Close()

	rec := f.do(t, http.MethodPost, "/api/documents", &buf, writer.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadCover(t *testing.T) {
	f := newFixture(t)
	doc := testsupport.NewDocument(t, f.store, "Covered")

	body, contentType := multipartUpload(t, nil, "cover.png", "png-bytes")
	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/documents/%d/cover", doc.ID), body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[documentView](t, rec)
	if view.CoverPath == "" {
		t.Fatal("cover path should be recorded")
	}
	content, err := os.ReadFile(view.CoverPath)
	if err != nil {
		t.Fatalf("read stored cover: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Errorf("stored cover = %q", content)
	}
	firstPath := view.CoverPath

	// Re-upload with another extension replaces the old file.
	body, contentType = multipartUpload(t, nil, "cover.jpg", "jpg-bytes")
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/documents/%d/cover", doc.ID), body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	view = decodeBody[documentView](t, rec)
	if view.CoverPath == firstPath {
		t.Fatal("re-upload should record the new cover path")
	}
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Errorf("previous cover should be removed, stat err = %v", err)
	}

	body, contentType = multipartUpload(t, nil, "cover.txt", "not an image")
	rec = f.do(t, http.MethodPost, fmt.Sprintf("/api/documents/%d/cover", doc.ID), body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-image status = %d, want 400", rec.Code)
	}

	body, contentType = multipartUpload(t, nil, "cover.png", "orphan")
	rec = f.do(t, http.MethodPost, "/api/documents/999/cover", body, contentType)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing document status = %d, want 404", rec.Code)
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/api/documents/42", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/documents/zero", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad id", rec.Code)
	}
}

func TestTriggerEndpointsAnswer202(t *testing.T) {
	f := newFixture(t)
	doc := testsupport.NewDocument(t, f.store, "Triggers")
	ctx := context.Background()
	if err := f.store.ReplaceChapters(ctx, doc.ID, []library.NewChapter{{Position: 1, Title: "One", Body: "body"}}); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}
	chapters, err := f.store.ChaptersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChaptersByDocument: %v", err)
	}

	cases := []struct {
		path string
		want string
	}{
		{fmt.Sprintf("/api/documents/%d/parse", doc.ID), "corr-parse"},
		{fmt.Sprintf("/api/documents/%d/analyze", doc.ID), "corr-analyze"},
		{fmt.Sprintf("/api/documents/%d/produce", doc.ID), "corr-produce"},
		{fmt.Sprintf("/api/chapters/%d/segment", chapters[0].ID), "corr-segment"},
		{fmt.Sprintf("/api/chapters/%d/generate", chapters[0].ID), "corr-generate"},
	}
	for _, tc := range cases {
		rec := f.do(t, http.MethodPost, tc.path, nil, "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s status = %d, body %s", tc.path, rec.Code, rec.Body.String())
		}
		resp := decodeBody[triggerResponse](t, rec)
		if resp.CorrelationID != tc.want {
			t.Errorf("%s correlation id = %q, want %q", tc.path, resp.CorrelationID, tc.want)
		}
	}

	rec := f.do(t, http.MethodPost, "/api/documents/999/parse", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing document trigger status = %d, want 404", rec.Code)
	}
	rec = f.do(t, http.MethodPost, "/api/chapters/999/segment", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing chapter trigger status = %d, want 404", rec.Code)
	}
}

func TestListChaptersAndSegments(t *testing.T) {
	f := newFixture(t)
	doc := testsupport.NewDocument(t, f.store, "Listing")
	ctx := context.Background()
	if err := f.store.ReplaceChapters(ctx, doc.ID, []library.NewChapter{
		{Position: 1, Title: "One", Body: "first"},
		{Position: 2, Title: "Two", Body: "second"},
	}); err != nil {
		t.Fatalf("ReplaceChapters: %v", err)
	}
	chapters, err := f.store.ChaptersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("ChaptersByDocument: %v", err)
	}
	if err := f.store.ReplaceSegments(ctx, chapters[0].ID, []library.NewSegment{
		{Body: "hello", Speaker: library.Narrator()},
	}); err != nil {
		t.Fatalf("ReplaceSegments: %v", err)
	}

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/documents/%d/chapters", doc.ID), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("chapters status = %d", rec.Code)
	}
	chapterViews := decodeBody[[]chapterView](t, rec)
	if len(chapterViews) != 2 || chapterViews[0].Title != "One" {
		t.Fatalf("chapter views = %+v", chapterViews)
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/chapters/%d/segments", chapters[0].ID), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("segments status = %d", rec.Code)
	}
	segmentViews := decodeBody[[]segmentView](t, rec)
	if len(segmentViews) != 1 || segmentViews[0].Body != "hello" {
		t.Fatalf("segment views = %+v", segmentViews)
	}
	if segmentViews[0].SpeakerID != nil {
		t.Errorf("narrator segment speaker_id should be null")
	}
}

func TestUpdateCharacter(t *testing.T) {
	f := newFixture(t)
	doc := testsupport.NewDocument(t, f.store, "Casting")
	ctx := context.Background()
	if err := f.store.ReplaceCharacters(ctx, doc.ID, []library.NewCharacter{
		{Name: "Edmond", Gender: "male", AgeCategory: "adult"},
	}); err != nil {
		t.Fatalf("ReplaceCharacters: %v", err)
	}
	characters, err := f.store.CharactersByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("CharactersByDocument: %v", err)
	}
	id := characters[0].ID

	body := strings.NewReader(`{"voice_id": "fr-FR-HenriNeural", "tone": "Stern"}`)
	rec := f.do(t, http.MethodPatch, fmt.Sprintf("/api/characters/%d", id), body, "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	view := decodeBody[characterView](t, rec)
	if view.VoiceID != "fr-FR-HenriNeural" {
		t.Errorf("voice id = %q", view.VoiceID)
	}
	if view.Tone != "stern" {
		t.Errorf("tone = %q, want lowercased", view.Tone)
	}
	if view.Name != "Edmond" {
		t.Errorf("absent fields must keep their values, name = %q", view.Name)
	}

	body = strings.NewReader(`{"voice_id": "no-such-voice"}`)
	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/characters/%d", id), body, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown voice status = %d, want 400", rec.Code)
	}

	body = strings.NewReader(`{"name": "  "}`)
	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/characters/%d", id), body, "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d, want 400", rec.Code)
	}
}

func TestListVoicesFallsBackToRegistry(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/voices", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeBody[voicesResponse](t, rec)
	if resp.Source != "registry" {
		t.Errorf("source = %q, want registry when provider fails", resp.Source)
	}
	if len(resp.Voices) == 0 {
		t.Fatal("registry fallback returned no voices")
	}

	f.synth.err = nil
	f.synth.voices = []synthesis.VoiceInfo{{ID: "fr-FR-DeniseNeural", Locale: "fr-FR", Gender: "female"}}
	rec = f.do(t, http.MethodGet, "/api/voices", nil, "")
	resp = decodeBody[voicesResponse](t, rec)
	if resp.Source != "provider" || len(resp.Voices) != 1 {
		t.Errorf("provider listing = %+v", resp)
	}
}

func TestDeleteDocumentRemovesFiles(t *testing.T) {
	f := newFixture(t)
	body, contentType := multipartUpload(t, map[string]string{"mode": "none"}, "gone.txt", "bye")
	rec := f.do(t, http.MethodPost, "/api/documents", body, contentType)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}
	resp := decodeBody[struct {
		Document documentView `json:"document"`
	}](t, rec)

	ctx := context.Background()
	doc, err := f.store.GetDocument(ctx, resp.Document.ID)
	if err != nil || doc == nil {
		t.Fatalf("GetDocument: %v, %v", doc, err)
	}
	audioTree := filepath.Join(f.audioDir, fmt.Sprintf("document_%d", doc.ID))
	if err := os.MkdirAll(audioTree, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	rec = f.do(t, http.MethodDelete, fmt.Sprintf("/api/documents/%d", doc.ID), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if _, err := os.Stat(doc.SourcePath); !os.IsNotExist(err) {
		t.Errorf("uploaded file should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(audioTree); !os.IsNotExist(err) {
		t.Errorf("audio tree should be removed, stat err = %v", err)
	}
	if remaining, err := f.store.GetDocument(ctx, doc.ID); err != nil || remaining != nil {
		t.Errorf("document should be gone: %v, %v", remaining, err)
	}
}
