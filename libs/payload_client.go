package libs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/models"
)

const apiPrefix = "/api"

type PayloadConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// PayloadClient talks to the PayloadCMS REST API. It holds no per-user
// state: the caller's token travels in the context (see WithAuthToken).
type PayloadClient struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

func NewPayloadClient(cfg PayloadConfig, log *zap.Logger) (*PayloadClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("payload base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("payload base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &PayloadClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		log:        log,
	}, nil
}

type authTokenKey struct{}

// WithAuthToken attaches a CMS token to ctx; requests made with the returned
// context are authenticated as that user.
func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authTokenKey{}, token)
}

func AuthTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey{}).(string)
	return token
}

type PaginatedDocs[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"totalDocs"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
}

type docEnvelope struct {
	Doc     json.RawMessage `json:"doc"`
	Message string          `json:"message"`
}

func (c *PayloadClient) FindByID(ctx context.Context, collection, id string, depth int, out interface{}) error {
	q := url.Values{}
	q.Set("depth", strconv.Itoa(depth))
	return c.Do(ctx, http.MethodGet, collectionPath(collection, id), q, nil, out)
}

// Find runs a collection query; out should be a *PaginatedDocs[T].
func (c *PayloadClient) Find(ctx context.Context, collection string, query *Query, out interface{}) error {
	var values url.Values
	if query != nil {
		values = query.Values()
	}
	return c.Do(ctx, http.MethodGet, collectionPath(collection, ""), values, nil, out)
}

func (c *PayloadClient) Create(ctx context.Context, collection string, body interface{}, out interface{}) error {
	var env docEnvelope
	if err := c.Do(ctx, http.MethodPost, collectionPath(collection, ""), nil, body, &env); err != nil {
		return err
	}
	return decodeDoc(env, out)
}

// UpdateByID PATCHes the given fields. Arrays are replaced wholesale by the
// CMS; there is no partial array update.
func (c *PayloadClient) UpdateByID(ctx context.Context, collection, id string, patch interface{}, depth int, out interface{}) error {
	q := url.Values{}
	q.Set("depth", strconv.Itoa(depth))

	var env docEnvelope
	if err := c.Do(ctx, http.MethodPatch, collectionPath(collection, id), q, patch, &env); err != nil {
		return err
	}
	return decodeDoc(env, out)
}

func (c *PayloadClient) DeleteByID(ctx context.Context, collection, id string) error {
	return c.Do(ctx, http.MethodDelete, collectionPath(collection, id), nil, nil, nil)
}

func (c *PayloadClient) FindGlobal(ctx context.Context, slug string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, "/globals/"+url.PathEscape(slug), nil, nil, out)
}

// Do performs one request against path (relative to /api) and decodes the
// JSON response into out when out is non-nil.
func (c *PayloadClient) Do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := AuthTokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.NewNetwork("request cancelled", ctxErr)
		}
		return models.NewNetwork("payload request failed", err)
	}
	defer resp.Body.Close()

	c.log.Debug("payload request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return c.handleErrorResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// payloadError is the error body Payload returns:
// {"errors":[{"name":"ValidationError","message":"...","data":{"errors":[{"path":"code","message":"..."}]}}]}
type payloadError struct {
	Errors []struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Data    *struct {
			Errors []models.FieldError `json:"errors"`
		} `json:"data"`
	} `json:"errors"`
	Message string `json:"message"`
}

func (c *PayloadClient) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return parseErrorResponse(resp.StatusCode, body)
}

func parseErrorResponse(statusCode int, body []byte) error {
	var pe payloadError
	_ = json.Unmarshal(body, &pe)

	message := pe.Message
	var fields []models.FieldError
	for _, e := range pe.Errors {
		if message == "" {
			message = e.Message
		}
		if e.Data != nil {
			fields = append(fields, e.Data.Errors...)
		}
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}

	switch {
	case statusCode == http.StatusNotFound:
		return models.NewNotFound(message)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewUnauthorized(message)
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity || statusCode == http.StatusConflict:
		return models.NewValidation(message, fields...)
	default:
		return models.NewNetwork(fmt.Sprintf("payload responded %d", statusCode), errors.New(message))
	}
}

func decodeDoc(env docEnvelope, out interface{}) error {
	if out == nil || len(env.Doc) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Doc, out); err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	return nil
}

func collectionPath(collection, id string) string {
	p := "/" + url.PathEscape(collection)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}
