package content

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/contact"
	"mining-storefront/internal/gateway"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, backend http.HandlerFunc) *gin.Engine {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	h := NewContentHandler(gateway.NewClient(gateway.WithBaseURL(server.URL)), zap.NewNop())
	r := gin.New()
	r.GET("/blog/posts", h.ListPosts)
	r.GET("/blog/posts/:slug", h.GetPost)
	r.GET("/blog/posts/:slug/related", h.GetRelatedPosts)
	r.GET("/blog/tags", h.GetTags)
	r.POST("/contact", h.SubmitContact)
	return r
}

func serve(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestContentHandler_ListPostsPassesFilters(t *testing.T) {
	var gotQuery string
	r := newEngine(t, func(w http.ResponseWriter, req *http.Request) {
		gotQuery = req.URL.RawQuery
		w.Write([]byte(`{"success":true,"posts":[{"_id":"b1","title":"Haul trucks","slug":"haul-trucks"}],"pagination":{"total":1}}`))
	})

	w := serve(r, http.MethodGet, "/blog/posts?tag=safety&page=2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "page=2&tag=safety", gotQuery)
	assert.Contains(t, w.Body.String(), `"slug":"haul-trucks"`)
}

func TestContentHandler_PostNotFound(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Post not found"}`))
	})

	w := serve(r, http.MethodGet, "/blog/posts/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Post not found"`)
}

func TestContentHandler_RelatedPostsSwallowFailure(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := serve(r, http.MethodGet, "/blog/posts/haul-trucks/related", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"related posts retrieved","data":[]}`, w.Body.String())
}

func TestContentHandler_BackendDown(t *testing.T) {
	r := newEngine(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	w := serve(r, http.MethodGet, "/blog/tags", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"server"`)
}

func TestContentHandler_SubmitContact(t *testing.T) {
	var got contact.SubmitRequest
	r := newEngine(t, func(w http.ResponseWriter, req *http.Request) {
		json.NewDecoder(req.Body).Decode(&got)
		w.Write([]byte(`{"success":true}`))
	})

	w := serve(r, http.MethodPost, "/contact", contact.SubmitRequest{
		Name: "Ann", Email: "ann@x.co", Subject: "Quote", Message: "Need 3 drills",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Need 3 drills", got.Message)
	assert.Contains(t, w.Body.String(), "Message sent successfully")

	w = serve(r, http.MethodPost, "/contact", contact.SubmitRequest{Name: "Ann", Email: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
