package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dskvich/atlas-telegram-bot/pkg/domain"
)

type fakeServer struct {
	mu        sync.Mutex
	available map[string]bool
	listed    []string // served on GET /v1/models when non-nil
	listOnly  bool
	usage     bool
	looked    []string
	requests  []map[string]any
	text      string
	status    int
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/models" && f.listed != nil:
		models := make([]map[string]any, 0, len(f.listed))
		for _, id := range f.listed {
			models = append(models, map[string]any{"id": id, "object": "model", "owned_by": "local"})
		}
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": models})

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v1/models/") && !f.listOnly:
		model := strings.TrimPrefix(r.URL.Path, "/v1/models/")
		f.looked = append(f.looked, model)
		if !f.available[model] {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": model, "object": "model", "owned_by": "local"})

	case r.Method == http.MethodPost && r.URL.Path == "/v1/completions":
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.requests = append(f.requests, body)

		if f.status != 0 {
			w.WriteHeader(f.status)
			w.Write([]byte(`{"error":{"message":"timeout","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "cmpl-1",
			"object":  "text_completion",
			"created": 1,
			"model":   body["model"],
			"choices": []map[string]any{{"text": f.text, "index": 0, "finish_reason": "length"}},
		}
		if f.usage {
			resp["usage"] = map[string]any{"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8}
		}
		json.NewEncoder(w).Encode(resp)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newConfig(url string) Config {
	return Config{
		BaseURL:       url + "/v1",
		Model:         "aubmindlab/aragpt2-base",
		FallbackModel: "distilgpt2",
		EchoPrompt:    true,
	}
}

func TestLoadPreferredModel(t *testing.T) {
	fake := &fakeServer{available: map[string]bool{"aubmindlab/aragpt2-base": true, "distilgpt2": true}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Load(context.Background(), newConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "aubmindlab/aragpt2-base" {
		t.Errorf("expected preferred model, got %s", client.Model())
	}
	if len(fake.looked) != 1 {
		t.Errorf("expected a single model lookup, got %v", fake.looked)
	}
}

func TestLoadFallsBack(t *testing.T) {
	fake := &fakeServer{available: map[string]bool{"distilgpt2": true}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Load(context.Background(), newConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "distilgpt2" {
		t.Errorf("expected fallback model, got %s", client.Model())
	}
	if len(fake.looked) != 2 || fake.looked[1] != "distilgpt2" {
		t.Errorf("unexpected lookup order: %v", fake.looked)
	}
}

func TestLoadFallbackFails(t *testing.T) {
	fake := &fakeServer{available: map[string]bool{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	if _, err := Load(context.Background(), newConfig(srv.URL)); err == nil {
		t.Fatal("expected an error when no model can be loaded")
	}
}

func TestGenerate(t *testing.T) {
	fake := &fakeServer{
		available: map[string]bool{"aubmindlab/aragpt2-base": true},
		text:      "prompt and continuation",
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Load(context.Background(), newConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := client.Generate(context.Background(), "What causes fever?", 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "prompt and continuation" {
		t.Errorf("unexpected text %q", got)
	}

	if len(fake.requests) != 1 {
		t.Fatalf("expected one completion request, got %d", len(fake.requests))
	}
	req := fake.requests[0]

	expected := map[string]any{
		"model":      "aubmindlab/aragpt2-base",
		"prompt":     "What causes fever?",
		"max_tokens": float64(400),
		"n":          float64(1),
		"seed":       float64(Seed),
		"echo":       true,
	}
	for key, want := range expected {
		if req[key] != want {
			t.Errorf("request field %s = %v, want %v", key, req[key], want)
		}
	}
}

func TestGenerateError(t *testing.T) {
	fake := &fakeServer{
		available: map[string]bool{"aubmindlab/aragpt2-base": true},
		status:    http.StatusInternalServerError,
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Load(context.Background(), newConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Generate(context.Background(), "prompt", 400)
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected server message in error, got %q", err.Error())
	}
	if len(fake.requests) != 1 {
		t.Errorf("expected no retries, got %d requests", len(fake.requests))
	}
}

func TestLoadFromModelList(t *testing.T) {
	tests := []struct {
		name     string
		listed   []string
		expected string
	}{
		{"preferred listed", []string{"distilgpt2", "aubmindlab/aragpt2-base"}, "aubmindlab/aragpt2-base"},
		{"only fallback listed", []string{"distilgpt2"}, "distilgpt2"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fake := &fakeServer{listed: test.listed, listOnly: true}
			srv := httptest.NewServer(fake)
			defer srv.Close()

			client, err := Load(context.Background(), newConfig(srv.URL))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Model() != test.expected {
				t.Errorf("expected %s, got %s", test.expected, client.Model())
			}
		})
	}
}

func TestLoadNotInListUsesModelRoute(t *testing.T) {
	fake := &fakeServer{
		listed:    []string{"something-else"},
		available: map[string]bool{"aubmindlab/aragpt2-base": true},
	}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := Load(context.Background(), newConfig(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Model() != "aubmindlab/aragpt2-base" {
		t.Errorf("expected preferred model, got %s", client.Model())
	}
}

func TestLoadListOnlyNothingServed(t *testing.T) {
	fake := &fakeServer{listed: []string{"other"}, listOnly: true}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	if _, err := Load(context.Background(), newConfig(srv.URL)); err == nil {
		t.Fatal("expected an error when neither model is listed")
	}
}

func TestGenerateWithAndWithoutUsage(t *testing.T) {
	for _, usage := range []bool{false, true} {
		fake := &fakeServer{
			available: map[string]bool{"aubmindlab/aragpt2-base": true},
			usage:     usage,
			text:      "answer",
		}
		srv := httptest.NewServer(fake)

		client, err := Load(context.Background(), newConfig(srv.URL))
		if err != nil {
			srv.Close()
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := client.Generate(context.Background(), "prompt", 400)
		if err != nil || got != "answer" {
			t.Errorf("usage=%v: got %q, %v", usage, got, err)
		}
		srv.Close()
	}
}
