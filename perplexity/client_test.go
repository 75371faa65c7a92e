package perplexity_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"

	"medassist-backend/perplexity"
)

func TestMain(m *testing.M) {
	for _, p := range []string{".env", "../.env"} {
		_ = godotenv.Load(p)
	}
	os.Exit(m.Run())
}

func TestCompleteMissingKey(t *testing.T) {
	t.Setenv("PERPLEXITY_API_KEY", "")
	c := perplexity.NewClient()
	out := c.Complete(context.Background(), "", "hello", perplexity.Options{})
	if !strings.HasPrefix(out, "Error:") {
		t.Errorf("got %q; want an error sentinel", out)
	}
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "1", "object": "chat.completion", "created": 1,
			"model": "sonar",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "pong"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	t.Setenv("PERPLEXITY_API_KEY", "test-key")
	t.Setenv("PERPLEXITY_API_BASE_URL", srv.URL)
	c := perplexity.NewClient()
	out := c.Complete(context.Background(), "system", "ping", perplexity.Options{Model: "sonar"})
	if out != "pong" {
		t.Errorf("got %q", out)
	}
}

func TestCompleteUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("PERPLEXITY_API_KEY", "test-key")
	t.Setenv("PERPLEXITY_API_BASE_URL", srv.URL)
	c := perplexity.NewClient()
	out := c.Complete(context.Background(), "", "ping", perplexity.Options{})
	if !strings.HasPrefix(out, "Error:") {
		t.Errorf("got %q; want an error sentinel", out)
	}
}
