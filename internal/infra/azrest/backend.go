// Package azrest implements domain.WorkItemBackend against the Azure DevOps
// Work Item Tracking REST API using a personal access token.
package azrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/runoshun/boards-seed/internal/domain"
)

// APIVersion is sent with every request.
const APIVersion = "7.1"

const (
	contentTypeJSON  = "application/json"
	contentTypePatch = "application/json-patch+json"
	parentRelation   = "System.LinkTypes.Hierarchy-Reverse"
)

// Ensure Backend implements domain.WorkItemBackend.
var _ domain.WorkItemBackend = (*Backend)(nil)

// Options configures a Backend.
type Options struct {
	HTTPClient   *http.Client // Defaults to a client with Timeout
	Organization string       // Organization URL, e.g. https://dev.azure.com/contoso
	Project      string
	Token        string // Personal access token
	Timeout      time.Duration
}

// Backend talks to the REST API.
type Backend struct {
	httpClient *http.Client
	logger     domain.Logger
	baseURL    string // {organization}/{project}/_apis/wit
	orgURL     string
	token      string
}

// New creates a Backend. Organization, project and token are required.
func New(logger domain.Logger, opts Options) (*Backend, error) {
	if opts.Organization == "" || opts.Project == "" {
		return nil, domain.ErrMissingScope
	}
	if opts.Token == "" {
		return nil, domain.ErrMissingToken
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = domain.DefaultTimeoutSeconds * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	org := strings.TrimRight(opts.Organization, "/")
	return &Backend{
		httpClient: httpClient,
		logger:     logger,
		orgURL:     org,
		baseURL:    org + "/" + url.PathEscape(opts.Project) + "/_apis/wit",
		token:      opts.Token,
	}, nil
}

// LinksOnCreate reports true: the parent relation is part of the create patch.
func (b *Backend) LinksOnCreate() bool {
	return true
}

// patchOp is one JSON Patch operation.
type patchOp struct {
	Value any    `json:"value"`
	Op    string `json:"op"`
	Path  string `json:"path"`
}

type relation struct {
	Rel string `json:"rel"`
	URL string `json:"url"`
}

type workItemResponse struct {
	ID int `json:"id"`
}

type wiqlRequest struct {
	Query string `json:"query"`
}

type wiqlResponse struct {
	WorkItems []workItemResponse `json:"workItems"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Create creates a work item, adding the parent relation in the same request.
func (b *Backend) Create(ctx context.Context, req domain.CreateRequest) (int, error) {
	ops := []patchOp{{Op: "add", Path: "/fields/System.Title", Value: req.Title}}
	if req.ParentID != nil {
		ops = append(ops, b.parentOp(*req.ParentID))
	}

	var item workItemResponse
	path := "/workitems/$" + url.PathEscape(req.Type)
	if err := b.doJSON(ctx, http.MethodPost, path, contentTypePatch, ops, &item); err != nil {
		return 0, err
	}
	if item.ID <= 0 {
		return 0, fmt.Errorf("create %s: response has no work item id", req.Type)
	}
	return item.ID, nil
}

// Link adds a parent relation to an existing work item.
func (b *Backend) Link(ctx context.Context, parentID, childID int) error {
	ops := []patchOp{b.parentOp(parentID)}
	return b.doJSON(ctx, http.MethodPatch, "/workitems/"+strconv.Itoa(childID), contentTypePatch, ops, nil)
}

// Delete moves a work item to the recycle bin.
func (b *Backend) Delete(ctx context.Context, id int) error {
	return b.doJSON(ctx, http.MethodDelete, "/workitems/"+strconv.Itoa(id), "", nil, nil)
}

// SearchByTitle runs a WIQL query for an exact title and type match.
func (b *Backend) SearchByTitle(ctx context.Context, title, itemType string) ([]int, error) {
	var resp wiqlResponse
	body := wiqlRequest{Query: domain.TitleQuery(itemType, title)}
	if err := b.doJSON(ctx, http.MethodPost, "/wiql", contentTypeJSON, body, &resp); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(resp.WorkItems))
	for _, w := range resp.WorkItems {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (b *Backend) parentOp(parentID int) patchOp {
	return patchOp{
		Op:   "add",
		Path: "/relations/-",
		Value: relation{
			Rel: parentRelation,
			URL: b.orgURL + "/_apis/wit/workItems/" + strconv.Itoa(parentID),
		},
	}
}

// --- HTTP helpers ---

func (b *Backend) doJSON(ctx context.Context, method, path, contentType string, body, result any) error {
	resp, err := b.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkError(resp); err != nil {
		return err
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (b *Backend) do(ctx context.Context, method, path, contentType string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	endpoint := b.baseURL + path + "?api-version=" + APIVersion
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth("", b.token)
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	b.logger.Debug("rest", method+" "+endpoint)
	return b.httpClient.Do(req)
}

func checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Message == "" {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("API error: HTTP %d: %s", resp.StatusCode, er.Message)
}
