package thoughts

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

	"github.com/dmitrijs2005/moments/internal/common"
	"github.com/dmitrijs2005/moments/internal/models"
)

func TestCreate_PostsJSONWithBearer(t *testing.T) {
	var gotBody models.CreateThoughtRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/moments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &gotBody))

		_, _ = io.WriteString(w, `{"code":0,"msg":"ok","data":{"id":"t1","content":"hello",
			"images":[{"url":"https://x/a.jpg","width":200,"height":100,"blurhash":"00TI:j"}],
			"visibility":"public"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", "tok", srv.Client())
	th, err := c.Create(context.Background(), models.CreateThoughtRequest{
		Content:    "hello",
		Images:     []models.ThoughtImage{{URL: "https://x/a.jpg", Width: 200, Height: 100, BlurHash: "00TI:j"}},
		Visibility: models.VisibilityPublic,
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", th.ID)
	require.Len(t, th.Images, 1)
	assert.Equal(t, "00TI:j", th.Images[0].BlurHash)
	assert.Equal(t, "hello", gotBody.Content)
}

func TestUpdate_PutsToThoughtPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/moments/t 1", r.URL.Path)
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":"t 1","content":"edited"}}`)
	}))
	defer srv.Close()

	content := "edited"
	th, err := NewClient(srv.URL, "tok", nil).Update(context.Background(), "t 1", models.UpdateThoughtRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", th.Content)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
		code   int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":401,"msg":"session expired"}`, common.ErrUnauthorized, 0},
		{"not found", http.StatusNotFound, `nope`, common.ErrNotFound, 0},
		{"server", http.StatusBadGateway, `upstream`, common.ErrServer, http.StatusBadGateway},
		{"envelope failure", http.StatusOK, `{"code":1001,"msg":"content too long"}`, common.ErrServer, 1001},
		{"missing data", http.StatusOK, `{"code":0,"msg":"ok"}`, common.ErrServer, 0},
		{"bad json", http.StatusOK, `<html>`, common.ErrDecoding, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok", nil).Create(context.Background(), models.CreateThoughtRequest{Content: "x"})
			require.ErrorIs(t, err, tt.is)
			if tt.code != 0 {
				var se *common.ServerError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.code, se.Code)
			}
		})
	}
}

func TestClient_UnauthorizedCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":401,"msg":"session expired"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok", nil).Create(context.Background(), models.CreateThoughtRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL, "tok", nil).Create(context.Background(), models.CreateThoughtRequest{})
	require.ErrorIs(t, err, common.ErrNetwork)
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "tok", nil).Create(ctx, models.CreateThoughtRequest{})
	require.ErrorIs(t, err, common.ErrNetwork)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestList_SendsPagingQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/moments", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "travel notes", r.URL.Query().Get("tag"))
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"code":0,"data":{"data":[{"id":"t6"},{"id":"t7"}],
			"pagination":{"page":2,"pageSize":5,"total":7,"totalPages":2}}}`)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "tok", nil).List(context.Background(), 2, 5, "travel notes")
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "t6", page.Data[0].ID)
	assert.Equal(t, 7, page.Pagination.Total)
	assert.False(t, page.Pagination.HasMore())
}

func TestList_OmitsEmptyTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.URL.Query()["tag"]
		assert.False(t, ok)
		_, _ = io.WriteString(w, `{"code":0,"data":{"data":[],"pagination":{"page":1,"pageSize":10,"total":0,"totalPages":1}}}`)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, "tok", nil).List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestGet_FetchesThought(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/moments/t1", r.URL.Path)
		_, _ = io.WriteString(w, `{"code":0,"data":{"id":"t1","content":"hello","tags":["a"]}}`)
	}))
	defer srv.Close()

	th, err := NewClient(srv.URL, "tok", nil).Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "hello", th.Content)
	assert.Equal(t, []string{"a"}, th.Tags)
}

func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":404,"msg":"thought not found"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok", nil).Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "thought not found")
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"empty data", http.StatusOK, `{"code":0,"msg":"ok","data":{}}`, nil},
		{"no data", http.StatusOK, `{"code":0,"msg":"ok"}`, nil},
		{"envelope failure", http.StatusOK, `{"code":1003,"msg":"locked"}`, common.ErrServer},
		{"not found", http.StatusNotFound, `{"code":404,"msg":"gone"}`, common.ErrNotFound},
		{"bad json", http.StatusOK, `<html>`, common.ErrDecoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/moments/t1", r.URL.Path)
				assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			err := NewClient(srv.URL, "tok", nil).Delete(context.Background(), "t1")
			if tt.is == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.is)
		})
	}
}
