package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/options"
)

func geminiAnswer(text string) string {
	return `{"candidates":[{"content":{"parts":[{"text":` + jsonString(text) + `}]}}]}`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func newGeminiClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithProvider(NewGemini(srv.Client(), srv.URL, "", "secret"))
}

func TestGeminiClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   model.Verdict
	}{
		{"threat", http.StatusOK, geminiAnswer("THREAT"), model.VerdictThreat},
		{"lower case with newline", http.StatusOK, geminiAnswer("safe\n"), model.VerdictSafe},
		{"suspicious padded", http.StatusOK, geminiAnswer("  Suspicious "), model.VerdictSuspicious},
		{"unexpected word", http.StatusOK, geminiAnswer("MAYBE"), model.VerdictUnknown},
		{"sentence", http.StatusOK, geminiAnswer("This is a THREAT."), model.VerdictUnknown},
		{"empty candidates", http.StatusOK, `{"candidates":[]}`, model.VerdictUnknown},
		{"missing content", http.StatusOK, `{"candidates":[{}]}`, model.VerdictUnknown},
		{"missing parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, model.VerdictUnknown},
		{"malformed json", http.StatusOK, `{"candidates":`, model.VerdictUnknown},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, model.VerdictUnknown},
		{"quota exceeded", http.StatusTooManyRequests, ``, model.VerdictUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			assert.Equal(t, tt.want, c.Classify(context.Background(), "enemy column spotted"))
		})
	}
}

func TestGeminiRequestShape(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotBody geminiRequest
	)
	c := newGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, geminiAnswer("SAFE"))
	})

	c.Classify(context.Background(), "birds over the ridge")

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash-lite:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, BuildPrompt("birds over the ridge"), gotBody.Contents[0].Parts[0].Text)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "'birds over the ridge'")
}

func TestClassifyHonoursDeadline(t *testing.T) {
	c := newGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Equal(t, model.VerdictUnknown, c.Classify(ctx, "anything"))
	assert.Less(t, time.Since(start), time.Second)
}

func TestClassifyUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewWithProvider(NewGemini(http.DefaultClient, srv.URL, "", "k"))
	assert.Equal(t, model.VerdictUnknown, c.Classify(context.Background(), "anything"))
}

func TestOllamaClassify(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"model":"llama3","response":"THREAT\n","done":true}`)
	}))
	defer srv.Close()

	c := NewWithProvider(NewOllama(srv.Client(), srv.URL, ""))
	assert.Equal(t, model.VerdictThreat, c.Classify(context.Background(), "armed convoy"))
	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, BuildPrompt("armed convoy"), got.Prompt)
}

func TestOllamaEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":""}`)
	}))
	defer srv.Close()

	_, err := NewOllama(srv.Client(), srv.URL, "").Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrClassificationUnavailable)
}

func TestNewSelectsProvider(t *testing.T) {
	opts := options.NewClassifierOptions()
	opts.APIKey = "k"
	c, err := New(opts)
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.provider.Name())

	opts.Provider = options.ClassifierOllama
	c, err = New(opts)
	require.NoError(t, err)
	assert.Equal(t, "ollama", c.provider.Name())

	opts.Provider = "gpt"
	_, err = New(opts)
	assert.Error(t, err)
}
