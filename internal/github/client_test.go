package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient points a Client at a mock HTTP server.
func setupTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClientWithBase(server.Client(), server.URL)
	require.NoError(t, err)
	return client
}

func contentJSON(path, content string) string {
	b, _ := json.Marshal(map[string]string{
		"type":     "file",
		"encoding": "base64",
		"path":     path,
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	})
	return string(b)
}

func TestClient_GetDiff(t *testing.T) {
	const diff = "diff --git a/main.go b/main.go\n+func main() {}\n"
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/7", r.URL.Path)
		assert.Contains(t, r.Header.Get("Accept"), "diff")
		fmt.Fprint(w, diff)
	}))

	got, err := client.GetDiff(context.Background(), "acme", "widgets", 7)
	require.NoError(t, err)
	assert.Equal(t, diff, got)
}

func TestClient_GetDiff_NotFound(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.GetDiff(context.Background(), "acme", "widgets", 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GetDoc_Readme(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/readme", r.URL.Path)
		fmt.Fprint(w, contentJSON("README.md", "# Widgets\n"))
	}))

	got, err := client.GetDoc(context.Background(), "acme", "widgets", "")
	require.NoError(t, err)
	assert.Equal(t, "# Widgets\n", got)
}

func TestClient_GetDoc_ExplicitPath(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/contents/docs/guide.md", r.URL.Path)
		fmt.Fprint(w, contentJSON("docs/guide.md", "# Guide\n"))
	}))

	got, err := client.GetDoc(context.Background(), "acme", "widgets", "docs/guide.md")
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n", got)
}

func TestClient_GetDoc_NotFound(t *testing.T) {
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	}))

	_, err := client.GetDoc(context.Background(), "acme", "widgets", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_PostComment(t *testing.T) {
	var gotBody string
	client := setupTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/widgets/issues/7/comments", r.URL.Path)
		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	}))

	err := client.PostComment(context.Background(), "acme", "widgets", 7, "docs need updating")
	require.NoError(t, err)
	assert.Equal(t, "docs need updating", gotBody)
}
