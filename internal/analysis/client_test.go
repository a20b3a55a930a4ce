package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fablecast/internal/analysis"
	"fablecast/internal/config"
	"fablecast/internal/services"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func newClient(baseURL string, opts ...analysis.Option) *analysis.Client {
	cfg := config.Analysis{
		APIKey:  "test",
		BaseURL: baseURL,
		Model:   "test-model",
	}
	opts = append(opts, analysis.WithSleeper(func(time.Duration) {}))
	return analysis.NewClient(cfg, opts...)
}

func TestAnalyzeCharacters(t *testing.T) {
	payload := `{"characters": [
		{"name": " Edmond ", "gender": "Male", "age_category": "Adult", "tone": "Deep", "voice_quality": "Calm", "description": "The count."},
		{"name": "", "gender": "female"},
		{"name": "Mercedes", "gender": "female", "age_category": "adult", "tone": "warm", "voice_quality": "soft"}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write(completionBody(t, payload))
	}))
	defer server.Close()

	roster, err := newClient(server.URL).AnalyzeCharacters(context.Background(), "some chapter text")
	if err != nil {
		t.Fatalf("AnalyzeCharacters: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("roster size = %d, want 2 (nameless entry dropped)", len(roster))
	}
	if roster[0].Name != "Edmond" || roster[0].Gender != "male" || roster[0].AgeCategory != "adult" {
		t.Fatalf("first entry not normalized: %+v", roster[0])
	}
}

func TestAnalyzeCharactersFencedPayload(t *testing.T) {
	payload := "```json\n{\"characters\": [{\"name\": \"Henri\", \"gender\": \"male\"}]}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, payload))
	}))
	defer server.Close()

	roster, err := newClient(server.URL).AnalyzeCharacters(context.Background(), "texte")
	if err != nil {
		t.Fatalf("AnalyzeCharacters: %v", err)
	}
	if len(roster) != 1 || roster[0].Name != "Henri" {
		t.Fatalf("roster = %+v", roster)
	}
}

func TestAssignRoles(t *testing.T) {
	payload := `[
		{"text": "Il marchait vers la porte.", "speaker": "Narrator"},
		{"text": "Qui est la ?", "speaker": "Edmond"}
	]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, payload))
	}))
	defer server.Close()

	roster := []analysis.RosterEntry{{Name: "Edmond", Gender: "male"}}
	lines, err := newClient(server.URL).AssignRoles(context.Background(), "texte du chapitre", roster)
	if err != nil {
		t.Fatalf("AssignRoles: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if lines[1].Speaker != "Edmond" {
		t.Fatalf("second speaker = %q", lines[1].Speaker)
	}
}

func TestAssignRolesSingleObjectWrapped(t *testing.T) {
	payload := `{"text": "Tout le texte.", "speaker": "Narrator"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, payload))
	}))
	defer server.Close()

	lines, err := newClient(server.URL).AssignRoles(context.Background(), "texte", nil)
	if err != nil {
		t.Fatalf("AssignRoles: %v", err)
	}
	if len(lines) != 1 || lines[0].Speaker != "Narrator" {
		t.Fatalf("lines = %+v", lines)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(completionBody(t, `{"characters": []}`))
	}))
	defer server.Close()

	roster, err := newClient(server.URL).AnalyzeCharacters(context.Background(), "texte")
	if err != nil {
		t.Fatalf("AnalyzeCharacters: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(roster) != 0 {
		t.Fatalf("roster = %+v", roster)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newClient(server.URL).AnalyzeCharacters(context.Background(), "texte")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("error should classify as provider, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (400 is not retryable)", calls)
	}
}

func TestEmptyTextRejected(t *testing.T) {
	client := newClient("http://127.0.0.1:0")

	if _, err := client.AnalyzeCharacters(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("AnalyzeCharacters on empty text = %v", err)
	}
	if _, err := client.AssignRoles(context.Background(), "", nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("AssignRoles on empty text = %v", err)
	}
}
