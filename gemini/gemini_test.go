package gemini_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/docchat/gemini"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeAPI is a minimal stand-in for the Gemini REST API.
type fakeAPI struct {
	mu     sync.Mutex
	bodies []string

	// text is returned by generateContent.
	text string

	// status, if set, fails every request.
	status int
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies...)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.bodies = append(f.bodies, string(b))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"fake failure","status":"FAILED"}}`, f.status)
		return
	}

	if strings.Contains(r.URL.Path, "mbed") {
		var req struct {
			Requests []json.RawMessage `json:"requests"`
		}
		_ = json.Unmarshal(b, &req)
		n := max(len(req.Requests), 1)
		embeddings := make([]string, n)
		for i := range embeddings {
			embeddings[i] = fmt.Sprintf(`{"values":[%d,0.5,0.25]}`, i+1)
		}
		fmt.Fprintf(w, `{"embeddings":[%s]}`, strings.Join(embeddings, ","))
		return
	}

	text, _ := json.Marshal(f.text)
	fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":%s}]},"finishReason":"STOP"}]}`, text)
}

func newClient(t *testing.T, api *fakeAPI) *genai.Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := gemini.NewClient(context.Background(), "test-key", server.URL)
	require.NoError(t, err)
	return client
}
