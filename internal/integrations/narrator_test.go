package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

type fakeCompleter struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAINarrator_Narrate(t *testing.T) {
	fake := &fakeCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  Too sweet for you.  "}}},
	}}
	n := &OpenAINarrator{client: fake, model: "test-model", timeout: time.Second}

	p := product.Product{Name: "Cola", Brand: "Acme", Nutrition: product.Nutrition{Sugar: 39}}
	a := analysis.Result{Score: 40, Level: analysis.LevelModerate, Warnings: []string{"High sugar"}}

	got, err := n.Narrate(context.Background(), p, a, []string{"diabetes"}, nil)
	if err != nil {
		t.Fatalf("Narrate() error = %v", err)
	}
	if got != "Too sweet for you." {
		t.Errorf("Narrate() = %q", got)
	}
	if fake.req.Model != "test-model" {
		t.Errorf("model = %q", fake.req.Model)
	}
	prompt := fake.req.Messages[1].Content
	for _, want := range []string{"Cola (Acme)", "diabetes", "Score: 40/100", "High sugar"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestOpenAINarrator_Errors(t *testing.T) {
	n := &OpenAINarrator{client: &fakeCompleter{err: errors.New("boom")}, timeout: time.Second}
	if _, err := n.Narrate(context.Background(), product.Product{}, analysis.Result{}, nil, nil); err == nil {
		t.Error("expected error from client")
	}

	n = &OpenAINarrator{client: &fakeCompleter{}, timeout: time.Second}
	if _, err := n.Narrate(context.Background(), product.Product{}, analysis.Result{}, nil, nil); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestNewOpenAINarrator_NoKey(t *testing.T) {
	if NewOpenAINarrator("", "") != nil {
		t.Error("expected nil narrator without an API key")
	}
}

func TestGeminiClient_Narrate(t *testing.T) {
	var gotKey, gotPath string
	var gotBody GeminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Goog-Api-Key")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Salty snack. "}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiClient("key", "test-model")
	g.baseURL = srv.URL

	p := product.Product{Name: "Crackers", Brand: "Acme", Nutrition: product.Nutrition{Sodium: 700}}
	got, err := g.Narrate(context.Background(), p, analysis.Result{Score: 45}, []string{"hipertension"}, nil)
	if err != nil {
		t.Fatalf("Narrate() error = %v", err)
	}
	if got != "Salty snack." {
		t.Errorf("Narrate() = %q", got)
	}
	if gotKey != "key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotPath != "/test-model:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || !strings.Contains(gotBody.Contents[0].Parts[0].Text, "hipertension") {
		t.Errorf("prompt not sent: %+v", gotBody)
	}
}

func TestGeminiClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewGeminiClient("key", "")
	g.baseURL = srv.URL
	if _, err := g.Narrate(context.Background(), product.Product{}, analysis.Result{}, nil, nil); err == nil {
		t.Error("expected error for non-200 response")
	}
	if NewGeminiClient("", "") != nil {
		t.Error("expected nil client without a key")
	}
}
