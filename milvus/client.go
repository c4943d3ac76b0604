package milvus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/anadex/core"
)

const (
	// DefaultCollection is the catalog collection name.
	DefaultCollection = "FRLISNAQ"

	// DefaultDimension is the vector dimension of the catalog collection.
	DefaultDimension = 256

	defaultBatchSize = 500
	defaultPoolSize  = 4

	createCollectionPath = "/v2/vectordb/collections/create"
	insertPath           = "/v2/vectordb/entities/insert"
	loadStatePath        = "/v2/vectordb/collections/get_load_state"
)

// Client talks to a Milvus-compatible vector collection service over its
// v2 RESTful API. The collection itself is an external service; the client
// only bootstraps the schema and bulk-loads entries into it.
type Client struct {
	uri        string
	token      string
	collection string
	dimension  int
	batchSize  int
	poolSize   int
	attempts   int
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithCollection overrides the collection name.
// Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(c *Client) error {
		if name != "" {
			c.collection = name
		}
		return nil
	}
}

// WithDimension overrides the vector dimension used in the schema.
// Default is DefaultDimension.
func WithDimension(dimension int) Option {
	return func(c *Client) error {
		if dimension <= 0 {
			return ErrInvalidDimension
		}
		c.dimension = dimension
		return nil
	}
}

// WithBatchSize sets the number of entries per insert request.
// Default is 500.
func WithBatchSize(size int) Option {
	return func(c *Client) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		c.batchSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent insert batches.
func WithPoolSize(size int) Option {
	return func(c *Client) error {
		if size < 1 {
			size = 1
		}
		c.poolSize = size
		return nil
	}
}

// WithHTTPClient replaces the default tuned HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient != nil {
			c.httpClient = httpClient
		}
		return nil
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		c.httpClient = newHTTPClient(timeout)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a client for the collection service at uri.
// An empty token disables authentication.
func NewClient(uri, token string, opts ...Option) (*Client, error) {
	if uri == "" {
		return nil, ErrURIRequired
	}

	c := &Client{
		uri:        strings.TrimRight(uri, "/"),
		token:      token,
		collection: DefaultCollection,
		dimension:  DefaultDimension,
		batchSize:  defaultBatchSize,
		poolSize:   defaultPoolSize,
		attempts:   defaultAttempts,
		httpClient: newHTTPClient(defaultTimeout),
		logger:     slog.Default().With("component", "milvus"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Collection returns the collection name the client targets.
func (c *Client) Collection() string {
	return c.collection
}

// responseEnvelope is the common v2 API response wrapper.
type responseEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CreateCollection creates the catalog collection with its schema and
// indexes. The vector field carries an HNSW index with COSINE metric; the
// auto-id primary key carries an STL_SORT index.
func (c *Client) CreateCollection(ctx context.Context) error {
	body := map[string]any{
		"collectionName": c.collection,
		"schema": map[string]any{
			"autoID":             true,
			"enableDynamicField": true,
			"fields": []map[string]any{
				{
					"fieldName": "Auto_Id",
					"dataType":  "Int64",
					"isPrimary": true,
					"autoID":    true,
				},
				{
					"fieldName": "vector",
					"dataType":  "FloatVector",
					"elementTypeParams": map[string]any{
						"dim": strconv.Itoa(c.dimension),
					},
				},
				varCharField("Code_Ana", core.MaxAnalyteCodeLen, false),
				varCharField("Libelle_Ana", core.MaxLabelLen, true),
				varCharField("Libelle_Llm", core.MaxNormalizedLabelLen, true),
				varCharField("Iata_code", core.MaxExternalCodeLen, false),
				varCharField("Chap_Ana", core.MaxChapterLen, false),
			},
		},
		"indexParams": []map[string]any{
			{
				"fieldName":  "vector",
				"indexName":  "vector_index",
				"metricType": "COSINE",
				"params": map[string]any{
					"index_type":     "HNSW",
					"M":              "32",
					"efConstruction": "400",
					"efSearch":       "150",
				},
			},
			{
				"fieldName": "Auto_Id",
				"indexName": "auto_id_index",
				"params": map[string]any{
					"index_type": "STL_SORT",
				},
			},
		},
	}

	if err := c.post(ctx, createCollectionPath, body, nil); err != nil {
		return err
	}

	c.logger.Info("collection created",
		"collection", c.collection,
		"dimension", c.dimension)
	return nil
}

// varCharField builds a VarChar schema field, optionally with the text
// analyzer and match enabled.
func varCharField(name string, maxLength int, analyzed bool) map[string]any {
	params := map[string]any{
		"max_length": strconv.Itoa(maxLength),
	}
	if analyzed {
		params["enable_analyzer"] = true
		params["enable_match"] = true
	}
	return map[string]any{
		"fieldName":         name,
		"dataType":          "VarChar",
		"elementTypeParams": params,
	}
}

// Insert bulk-loads catalog entries in batches submitted through a worker
// pool. Insert order is irrelevant under auto-generated primary keys.
// Returns the total number of inserted entities; zero entries is
// informational, not an error.
func (c *Client) Insert(ctx context.Context, entries []*core.CatalogEntry) (int, error) {
	if len(entries) == 0 {
		c.logger.Info("no entries to insert", "collection", c.collection)
		return 0, nil
	}

	pool, err := ants.NewPool(c.poolSize)
	if err != nil {
		return 0, err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		total    int
		firstErr error
	)

	for start := 0; start < len(entries); start += c.batchSize {
		end := start + c.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			count, err := c.insertBatch(ctx, batch)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			total += count
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if firstErr != nil {
		return total, firstErr
	}

	c.logger.Info("bulk insert finished",
		"collection", c.collection,
		"entries", len(entries),
		"inserted", total)
	return total, nil
}

// insertBatch sends one insert request, retrying transient failures.
func (c *Client) insertBatch(ctx context.Context, batch []*core.CatalogEntry) (int, error) {
	body := map[string]any{
		"collectionName": c.collection,
		"data":           batch,
	}

	var data struct {
		InsertCount int `json:"insertCount"`
	}
	err := retry(ctx, c.attempts, func() error {
		return c.post(ctx, insertPath, body, &data)
	})
	if err != nil {
		return 0, err
	}
	return data.InsertCount, nil
}

// LoadState reports the collection's load state (e.g. "LoadStateLoaded").
func (c *Client) LoadState(ctx context.Context) (string, error) {
	body := map[string]any{
		"collectionName": c.collection,
	}

	var data struct {
		LoadState string `json:"loadState"`
	}
	if err := c.post(ctx, loadStatePath, body, &data); err != nil {
		return "", err
	}
	return data.LoadState, nil
}

// post sends a JSON request and decodes the envelope's data into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uri+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s: status %d", ErrServiceUnavailable, path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d", ErrServiceError, path, resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrServiceError, path, err)
	}
	if envelope.Code != 0 {
		return fmt.Errorf("%w: %s: code %d: %s", ErrServiceError, path, envelope.Code, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrServiceError, path, err)
		}
	}
	return nil
}
