// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package anadex

import (
	"context"
	"log/slog"

	"github.com/poiesic/anadex/ai"
	"github.com/poiesic/anadex/ai/openai"
	"github.com/poiesic/anadex/catalog"
	"github.com/poiesic/anadex/label"
	"github.com/poiesic/anadex/search"
	"github.com/poiesic/anadex/store"
	"github.com/poiesic/anadex/store/badger"
)

// Catalog bundles the local catalog store with the embedding provider and
// hands out ready-to-use builders and searchers.
type Catalog struct {
	backend  *badger.Backend
	repo     store.CatalogRepository
	provider ai.Provider
	adapter  *ai.Adapter
	table    label.Table
	logger   *slog.Logger
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	aiConfig *ai.Config
	table    label.Table
	inMemory bool
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(config *ai.Config) OpenOption {
	return func(o *openOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithSynonymTable sets the synonym table used for query normalization.
func WithSynonymTable(table label.Table) OpenOption {
	return func(o *openOptions) {
		o.table = table
	}
}

// WithInMemory opens the store in memory, discarding on Close.
func WithInMemory() OpenOption {
	return func(o *openOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) the catalog store at filePath and wires the
// embedding provider.
func Open(filePath string, opts ...OpenOption) (*Catalog, error) {
	// Apply options
	options := &openOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create catalog repository
	repo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create embedding provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	adapter, err := ai.NewAdapter(provider.Embedder(), options.aiConfig.Dimension)
	if err != nil {
		provider.Close()
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Catalog{
		backend:  backend,
		repo:     repo,
		provider: provider,
		adapter:  adapter,
		table:    options.table,
		logger:   slog.Default(),
	}, nil
}

func (c *Catalog) Close() error {
	// Close embedding provider first
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing embedding provider", "err", err)
	}

	// Close repository
	if err := c.repo.Close(); err != nil {
		c.logger.Error("error closing catalog repository", "err", err)
		return err
	}

	// Close backend
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (c *Catalog) Repository() store.CatalogRepository {
	return c.repo
}

func (c *Catalog) Adapter() *ai.Adapter {
	return c.adapter
}

func (c *Catalog) NewBuilder(opts ...catalog.BuilderOption) (*catalog.Builder, error) {
	return catalog.NewBuilder(c.table, c.adapter, opts...)
}

// NewSearcher loads all stored entries and builds a searcher over them.
func (c *Catalog) NewSearcher(ctx context.Context, opts ...search.Option) (*search.Searcher, error) {
	entries, err := c.repo.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]search.Option{search.WithSynonyms(c.table)}, opts...)
	return search.NewSearcher(entries, c.adapter, opts...)
}
