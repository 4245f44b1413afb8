package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/catalog"
	"mining-storefront/internal/domain/order"
	"mining-storefront/internal/pkg/query"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(WithBaseURL(server.URL))
	return server, client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient()

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.Auth)
	assert.NotNil(t, client.Products)
	assert.NotNil(t, client.Admin)
}

func TestNewClient_Options(t *testing.T) {
	custom := &http.Client{}
	client := NewClient(
		WithBaseURL("http://localhost:5000/"),
		WithHTTPClient(custom),
		WithTimeout(5*time.Second),
		WithUserAgent("test-agent"),
	)

	assert.Equal(t, "http://localhost:5000", client.BaseURL())
	assert.Same(t, custom, client.httpClient)
	assert.Equal(t, 5*time.Second, custom.Timeout)
	assert.Equal(t, "test-agent", client.userAgent)
}

func TestAuth_Login(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var creds auth.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.co", creds.Email)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   "abc",
			"user":    map[string]any{"id": "1", "email": "a@b.co"},
		})
	})

	resp, err := client.Auth.Login(context.Background(), auth.Credentials{Email: "a@b.co", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, "1", resp.User.ID)
}

func TestAuth_MeAcceptsBareAndWrapped(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare", body: `{"id":"7","email":"x@y.z"}`},
		{name: "wrapped", body: `{"success":true,"user":{"id":"7","email":"x@y.z"}}`},
		{name: "numeric id", body: `{"id":7,"email":"x@y.z"}`},
		{name: "wrapped numeric id", body: `{"user":{"id":7,"email":"x@y.z"}}`},
		{name: "mongo id", body: `{"_id":"7","email":"x@y.z"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.Write([]byte(tt.body))
			})

			user, err := client.Auth.Me(context.Background(), "tok")

			require.NoError(t, err)
			assert.Equal(t, "7", user.ID)
			assert.Equal(t, "x@y.z", user.Email)
		})
	}
}

func TestErrors_Parsing(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{"message field", 400, `{"success":false,"message":"Invalid credentials"}`, KindInvalid, "Invalid credentials"},
		{"nested error", 422, `{"error":{"message":"Email taken"}}`, KindInvalid, "Email taken"},
		{"error string", 403, `{"error":"Admins only"}`, KindForbidden, "Admins only"},
		{"unauthorized", 401, `{"message":"Token expired"}`, KindUnauthorized, "Token expired"},
		{"not found no body", 404, ``, KindNotFound, DefaultMessage},
		{"server html", 502, `<html>Bad gateway</html>`, KindServer, DefaultMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Products.Get(context.Background(), "p1")

			require.Error(t, err)
			gwErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, gwErr.Kind)
			assert.Equal(t, tt.status, gwErr.StatusCode)
			assert.Equal(t, tt.wantMsg, gwErr.UserMessage())
		})
	}
}

func TestErrors_Predicates(t *testing.T) {
	assert.True(t, (&Error{Kind: KindUnauthorized}).IsUnauthorized())
	assert.True(t, (&Error{Kind: KindNotFound}).IsNotFound())
	assert.True(t, (&Error{Kind: KindForbidden}).IsForbidden())
	assert.True(t, (&Error{Kind: KindNetwork}).IsTemporary())
	assert.False(t, (&Error{Kind: KindInvalid}).IsTemporary())
	assert.Equal(t, DefaultMessage, (&Error{Kind: KindServer}).UserMessage())
	assert.Equal(t, Kind(""), KindOf(io.EOF))
}

func TestErrors_Network(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(WithBaseURL(url))
	_, err := client.Categories.List(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	gwErr, _ := AsError(err)
	assert.NotEmpty(t, gwErr.UserMessage())
	assert.NotEqual(t, DefaultMessage, gwErr.UserMessage())
}

func TestErrors_CancelledContext(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Products.List(ctx, nil)

	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestErrors_DecodeFailure(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Products.List(context.Background(), nil)

	assert.Equal(t, KindDecode, KindOf(err))
}

func TestProducts_ListKeepsQueryOrder(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "category=c1&sortBy=price&sortOrder=asc&page=2&limit=12", r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"products":   []map[string]any{{"_id": "p1", "name": "Drill", "category": map[string]any{"_id": "c1", "name": "Drills"}}},
			"pagination": map[string]any{"currentPage": 2, "totalPages": 3, "totalProducts": 30, "hasNext": true, "hasPrev": true},
		})
	})

	filters := catalog.Filters{Category: "c1", SortBy: "price", SortOrder: "asc"}
	list, err := client.Products.List(context.Background(), filters.ListParams(2, catalog.DefaultPageSize))

	require.NoError(t, err)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Drills", list.Products[0].Category.Name)
	require.NotNil(t, list.Pagination)
	assert.Equal(t, 2, list.Pagination.CurrentPage)
	assert.True(t, list.Pagination.HasNext)
}

func TestProducts_CreateSendsMultipart(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary="))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Jaw Crusher", r.FormValue("name"))

		file, header, err := r.FormFile("images")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "crusher.jpg", header.Filename)
		assert.Equal(t, "JPEG", string(data))

		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "product": map[string]any{"_id": "p9", "name": "Jaw Crusher"}})
	})

	form := (&Form{}).
		AddField("name", "Jaw Crusher").
		AddFile("images", "crusher.jpg", "image/jpeg", strings.NewReader("JPEG"))
	product, err := client.Products.Create(context.Background(), "admin", form)

	require.NoError(t, err)
	assert.Equal(t, "p9", product.ID)
}

func TestCategories_Writes(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		assert.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost, http.MethodPut:
			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, header, err := r.FormFile("image")
			require.NoError(t, err)
			assert.Equal(t, "drills.png", header.Filename)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "category": map[string]any{"_id": "c9", "name": r.FormValue("name")}})
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category deleted"})
		}
	})

	form := func(name string) *Form {
		return (&Form{}).
			AddField("name", name).
			AddField("isActive", "true").
			AddFile("image", "drills.png", "image/png", strings.NewReader("PNG"))
	}
	created, err := client.Categories.Create(context.Background(), "admin", form("Drills"))
	require.NoError(t, err)
	assert.Equal(t, "c9", created.ID)

	updated, err := client.Categories.Update(context.Background(), "admin", "c9", form("Rock drills"))
	require.NoError(t, err)
	assert.Equal(t, "Rock drills", updated.Name)

	require.NoError(t, client.Categories.Delete(context.Background(), "admin", "c9"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"POST /api/categories", "PUT /api/categories/c9", "DELETE /api/categories/c9"}, seen)
}

func TestCategories_TreeAcceptsEitherKey(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"tree key", `{"tree":[{"_id":"c1","name":"Drills","children":[{"_id":"c2","name":"Bits"}]}]}`},
		{"categories key", `{"categories":[{"_id":"c1","name":"Drills","children":[{"_id":"c2","name":"Bits"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/categories/tree", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tt.body)
			})

			tree, err := client.Categories.Tree(context.Background())
			require.NoError(t, err)
			require.Len(t, tree, 1)
			assert.Equal(t, "c1", tree[0].ID)
			require.Len(t, tree[0].Children, 1)
			assert.Equal(t, "Bits", tree[0].Children[0].Name)
		})
	}
}

func TestProducts_ImportTemplateDownload(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/import/template", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="products-template.csv"`)
		w.Write([]byte("name,sku,price\n"))
	})

	blob, err := client.Products.ImportTemplate(context.Background(), "admin")

	require.NoError(t, err)
	assert.Equal(t, "text/csv", blob.ContentType)
	assert.Equal(t, "products-template.csv", blob.Filename)
	assert.Equal(t, "name,sku,price\n", string(blob.Data))
}

func TestProducts_SearchAndSuggestions(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/search":
			assert.Equal(t, "crusher", r.URL.Query().Get("q"))
			writeJSON(w, http.StatusOK, map[string]any{"products": []any{}})
		case "/api/search/suggestions":
			writeJSON(w, http.StatusOK, map[string]any{"suggestions": []map[string]any{{"type": "product", "text": "Cone Crusher"}}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	list, err := client.Products.Search(context.Background(), catalog.DefaultFilters().SearchParams("crusher", 1, 12))
	require.NoError(t, err)
	assert.NotNil(t, list.Products)

	suggestions, err := client.Products.Suggestions(context.Background(), "cone")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Cone Crusher", suggestions[0].Text)
}

func TestOrders_TokenHandling(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/orders" && r.Method == http.MethodPost:
			assert.Empty(t, r.Header.Get("Authorization"), "guest checkout sends no token")
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "order": map[string]any{"_id": "o1", "orderNumber": "ORD-1"}})
		case strings.HasPrefix(r.URL.Path, "/api/orders/track/"):
			assert.Equal(t, "/api/orders/track/ORD-1/a@b.co", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": map[string]any{"_id": "o1", "status": "shipped"}})
		case r.URL.Path == "/api/admin/orders":
			assert.Equal(t, "Bearer staff", r.Header.Get("Authorization"))
			assert.Equal(t, "status=pending", r.URL.RawQuery)
			writeJSON(w, http.StatusOK, map[string]any{"orders": []any{}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	created, err := client.Orders.Create(ctx, "", order.CreateOrderRequest{Items: []order.LineInput{{Product: "p1", Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", created.Order.OrderNumber)

	tracked, err := client.Orders.Track(ctx, "ORD-1", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, tracked.Order.Status)

	_, err = client.Orders.AdminList(ctx, "staff", query.Params{}.Add("status", "pending"))
	require.NoError(t, err)
}

func TestInvoices_ByOrderFormats(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/invoices/o1", r.URL.Path)
		if r.URL.Query().Get("format") == "pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "invoice": map[string]any{"invoiceNumber": "INV-1"}})
	})

	inv, err := client.Invoices.ByOrder(context.Background(), "tok", "o1")
	require.NoError(t, err)
	assert.Equal(t, "INV-1", inv.Invoice.InvoiceNumber)

	pdf, err := client.Invoices.ByOrderPDF(context.Background(), "tok", "o1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Equal(t, "%PDF", string(pdf.Data))
}

func TestAdmin_DashboardDefaultPeriod(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "30", r.URL.Query().Get("period"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": map[string]any{"totalOrders": 4, "totalRevenue": 1200.5}})
	})

	resp, err := client.Admin.Dashboard(context.Background(), "tok", 0)

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Stats.TotalOrders)
	assert.Equal(t, 1200.5, resp.Stats.TotalRevenue)
}

func TestRequestID_Propagates(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-123", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, map[string]any{"categories": []any{}})
	})

	_, err := client.Categories.List(WithRequestID(context.Background(), "req-123"), nil)

	require.NoError(t, err)
}

func TestNewCall_RouteLabel(t *testing.T) {
	cl := newCall(http.MethodGet, "/api/orders/track/%s/%s", "A 1", "x@y.z")

	assert.Equal(t, "/api/orders/track/A%201/x@y.z", cl.path)
	assert.Equal(t, "/api/orders/track/:param/:param", cl.route)
}
