package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teralink/downloader"
	"teralink/internal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer builds a Server whose upstream client talks to the given stub
// handlers. Passing nil installs a stub that counts unexpected calls.
func testServer(t *testing.T, listHandler, downloadHandler http.HandlerFunc) (*Server, *atomic.Int64) {
	t.Helper()

	var upstreamCalls atomic.Int64
	counting := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			upstreamCalls.Add(1)
			if next != nil {
				next(w, r)
			}
		}
	}

	listServer := httptest.NewServer(counting(listHandler))
	t.Cleanup(listServer.Close)
	downloadServer := httptest.NewServer(counting(downloadHandler))
	t.Cleanup(downloadServer.Close)

	config := internal.DefaultConfig()
	config.UpstreamTimeout = 5

	client, err := downloader.NewClientWithEndpoints(config, listServer.URL, downloadServer.URL)
	require.NoError(t, err)

	return New(config, client), &upstreamCalls
}

func listOneFile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{
		"errno": 0,
		"list": [
			{
				"server_filename": "report.pdf",
				"size": 1048576,
				"fs_id": 42,
				"category": 4,
				"isdir": 0,
				"thumbs": {"url3": "https://thumb.example/r.jpg"}
			}
		]
	}`)
}

func redirectToDirect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", "https://example/direct")
	w.WriteHeader(http.StatusFound)
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Home(t *testing.T) {
	s, upstreamCalls := testServer(t, nil, nil)

	w := doRequest(s, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Terabox Downloader API", body["name"])
	assert.Equal(t, "1.0", body["version"])
	assert.Contains(t, body, "endpoints")
	assert.Contains(t, body, "usage")

	assert.Equal(t, int64(0), upstreamCalls.Load(), "home must not call upstream")
}

func TestServer_Health(t *testing.T) {
	s, upstreamCalls := testServer(t, nil, nil)

	w := doRequest(s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "API is running", body["message"])

	assert.Equal(t, int64(0), upstreamCalls.Load(), "health must not call upstream")
}

func TestServer_Download_MissingURL(t *testing.T) {
	s, _ := testServer(t, nil, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "post_empty_object", method: http.MethodPost, target: "/api/download", body: "{}"},
		{name: "post_empty_url", method: http.MethodPost, target: "/api/download", body: `{"url": ""}`},
		{name: "post_null_url", method: http.MethodPost, target: "/api/download", body: `{"url": null}`},
		{name: "get_without_query", method: http.MethodGet, target: "/api/download", body: ""},
		{name: "info_post_empty_object", method: http.MethodPost, target: "/api/info", body: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, tt.method, tt.target, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var result internal.APIResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.False(t, result.Success)
			assert.Equal(t, "URL parameter is required", result.Message)
		})
	}
}

func TestServer_Download_MalformedBody(t *testing.T) {
	s, _ := testServer(t, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/download", "{not json")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Server error", result.Message)
}

func TestServer_Download_NonStringURL(t *testing.T) {
	s, upstreamCalls := testServer(t, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/download", `{"url": 123}`)

	// A wrong type inside an otherwise valid body is a soft failure.
	assert.Equal(t, http.StatusOK, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Error: url must be a string", result.Message)

	assert.Equal(t, int64(0), upstreamCalls.Load())
}

func TestServer_Download_InvalidShareLink(t *testing.T) {
	s, upstreamCalls := testServer(t, nil, nil)

	w := doRequest(s, http.MethodPost, "/api/download", `{"url": "https://terabox.com/nothing/here"}`)

	// Unrecognized links are a soft failure, not a 400.
	assert.Equal(t, http.StatusOK, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid Terabox URL", result.Message)

	assert.Equal(t, int64(0), upstreamCalls.Load())
}

func TestServer_Download_Success(t *testing.T) {
	s, _ := testServer(t, listOneFile, redirectToDirect)

	w := doRequest(s, http.MethodPost, "/api/download", `{"url": "https://terabox.com/s/1AbC123"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object")
	assert.Equal(t, "report.pdf", data["filename"])
	assert.Equal(t, float64(1048576), data["size"])
	assert.Equal(t, float64(42), data["fs_id"])
	assert.Equal(t, "https://example/direct", data["download_url"])
	assert.Equal(t, "https://thumb.example/r.jpg", data["thumbnail"])
	assert.Equal(t, float64(4), data["category"])
	assert.Equal(t, float64(0), data["isdir"])
}

func TestServer_Download_ViaQueryString(t *testing.T) {
	s, _ := testServer(t, listOneFile, redirectToDirect)

	w := doRequest(s, http.MethodGet, "/api/download?url=https%3A%2F%2Fterabox.com%2Fs%2F1AbC123", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.Equal(t, "report.pdf", result.Data.Filename)
}

func TestServer_Info_StripsDownloadURL(t *testing.T) {
	s, _ := testServer(t, listOneFile, redirectToDirect)

	w := doRequest(s, http.MethodPost, "/api/info", `{"url": "https://terabox.com/s/1AbC123"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object")
	assert.Equal(t, "report.pdf", data["filename"])
	assert.NotContains(t, data, "download_url")
}

func TestServer_Download_UpstreamFailurePassthrough(t *testing.T) {
	errnoList := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"errno": 2, "list": []}`)
	}
	s, _ := testServer(t, errnoList, nil)

	w := doRequest(s, http.MethodPost, "/api/download", `{"url": "https://terabox.com/s/1AbC123"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Terabox API Error: 2", result.Message)
}

func TestServer_Info_NoFiles(t *testing.T) {
	emptyList := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"errno": 0, "list": []}`)
	}
	s, _ := testServer(t, emptyList, nil)

	w := doRequest(s, http.MethodPost, "/api/info", `{"url": "https://terabox.com/s/1AbC123"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var result internal.APIResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "No files found in the link", result.Message)
}
