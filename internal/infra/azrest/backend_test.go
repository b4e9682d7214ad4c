package azrest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method      string
	Path        string
	Query       string
	ContentType string
	User        string
	Password    string
	Body        []byte
}

func newTestBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Backend, *[]capturedRequest) {
	t.Helper()
	var captured []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()
		captured = append(captured, capturedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Query:       r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			User:        user,
			Password:    pass,
			Body:        body,
		})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	b, err := New(nil, Options{
		Organization: srv.URL + "/contoso/",
		Project:      "Fabrikam",
		Token:        "secret-pat",
	})
	require.NoError(t, err)
	return b, &captured
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RequiresScopeAndToken(t *testing.T) {
	tests := []struct {
		wantErr error
		opts    Options
		name    string
	}{
		{name: "missing organization", opts: Options{Project: "p", Token: "t"}, wantErr: domain.ErrMissingScope},
		{name: "missing project", opts: Options{Organization: "o", Token: "t"}, wantErr: domain.ErrMissingScope},
		{name: "missing token", opts: Options{Organization: "o", Project: "p"}, wantErr: domain.ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, tt.opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBackend_Create(t *testing.T) {
	b, captured := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 321, "rev": 1})
	})

	id, err := b.Create(context.Background(), domain.CreateRequest{Title: "Checkout", Type: "Product Backlog Item"})

	require.NoError(t, err)
	assert.Equal(t, 321, id)
	require.Len(t, *captured, 1)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/contoso/Fabrikam/_apis/wit/workitems/$Product Backlog Item", req.Path)
	assert.Equal(t, "api-version="+APIVersion, req.Query)
	assert.Equal(t, contentTypePatch, req.ContentType)
	assert.Equal(t, "", req.User)
	assert.Equal(t, "secret-pat", req.Password)

	var ops []map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &ops))
	require.Len(t, ops, 1)
	assert.Equal(t, "add", ops[0]["op"])
	assert.Equal(t, "/fields/System.Title", ops[0]["path"])
	assert.Equal(t, "Checkout", ops[0]["value"])
}

func TestBackend_Create_WithParent(t *testing.T) {
	b, captured := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 12})
	})

	_, err := b.Create(context.Background(), domain.CreateRequest{Title: "Payment", Type: "Feature", ParentID: testutil.IntPtr(11)})

	require.NoError(t, err)
	var ops []struct {
		Value struct {
			Rel string `json:"rel"`
			URL string `json:"url"`
		} `json:"value"`
		Path string `json:"path"`
	}
	require.NoError(t, json.Unmarshal((*captured)[0].Body, &ops))
	require.Len(t, ops, 2)
	assert.Equal(t, "/relations/-", ops[1].Path)
	assert.Equal(t, parentRelation, ops[1].Value.Rel)
	assert.Contains(t, ops[1].Value.URL, "/contoso/_apis/wit/workItems/11")
}

func TestBackend_Create_MissingID(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	_, err := b.Create(context.Background(), domain.CreateRequest{Title: "x", Type: "Epic"})

	assert.ErrorContains(t, err, "no work item id")
}

func TestBackend_Create_APIError(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "TF401326: Invalid field status 'Required' for field 'System.Title'.",
		})
	})

	_, err := b.Create(context.Background(), domain.CreateRequest{Title: "", Type: "Epic"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 400")
	assert.Contains(t, err.Error(), "TF401326")
}

func TestBackend_APIError_NonJSONBody(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("<html>sign in</html>"))
	})

	err := b.Delete(context.Background(), 1)

	assert.EqualError(t, err, "API error: HTTP 401")
}

func TestBackend_Link(t *testing.T) {
	b, captured := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 20})
	})

	require.NoError(t, b.Link(context.Background(), 11, 20))

	req := (*captured)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/contoso/Fabrikam/_apis/wit/workitems/20", req.Path)
	assert.Contains(t, string(req.Body), parentRelation)
}

func TestBackend_Delete(t *testing.T) {
	b, captured := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, b.Delete(context.Background(), 42))

	req := (*captured)[0]
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/contoso/Fabrikam/_apis/wit/workitems/42", req.Path)
	assert.Empty(t, req.Body)
}

func TestBackend_SearchByTitle(t *testing.T) {
	b, captured := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"queryType": "flat",
			"workItems": []map[string]any{{"id": 5}, {"id": 9}},
		})
	})

	ids, err := b.SearchByTitle(context.Background(), "Bob's feature", "Feature")

	require.NoError(t, err)
	assert.Equal(t, []int{5, 9}, ids)
	req := (*captured)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/contoso/Fabrikam/_apis/wit/wiql", req.Path)
	assert.Equal(t, contentTypeJSON, req.ContentType)
	var body wiqlRequest
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, domain.TitleQuery("Feature", "Bob's feature"), body.Query)
}

func TestBackend_SearchByTitle_NoMatch(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"workItems": []any{}})
	})

	ids, err := b.SearchByTitle(context.Background(), "missing", "Epic")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestBackend_ContextCanceled(t *testing.T) {
	b, _ := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Delete(ctx, 1)

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBackend_LogsRequestsAtDebug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	logger := &testutil.MockLogger{}
	b, err := New(logger, Options{Organization: srv.URL, Project: "p", Token: "t"})
	require.NoError(t, err)

	require.NoError(t, b.Delete(context.Background(), 7))

	debug := logger.Messages("DEBUG")
	require.Len(t, debug, 1)
	assert.Equal(t, "DELETE "+srv.URL+"/p/_apis/wit/workitems/7?api-version="+APIVersion, debug[0])
}

func TestBackend_LinksOnCreate(t *testing.T) {
	b, err := New(nil, Options{Organization: "o", Project: "p", Token: "t"})
	require.NoError(t, err)
	assert.True(t, b.LinksOnCreate())
}
