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


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/poiesic/anadex/ai"
	"github.com/poiesic/anadex/ai/openai"
	"github.com/poiesic/anadex/catalog"
	"github.com/poiesic/anadex/config"
	"github.com/poiesic/anadex/core"
	"github.com/poiesic/anadex/hl7"
	"github.com/poiesic/anadex/milvus"
	"github.com/poiesic/anadex/search"
	"github.com/poiesic/anadex/store/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "anadex",
		Usage: "Lab analyte catalog builder and similarity search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "anadex.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract analyte definitions from HL7 feed files",
				ArgsUsage: "<feed files>",
				Action:    extractCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Directory for the extraction report",
						Value:   ".",
					},
				},
			},
			{
				Name:   "build",
				Usage:  "Build the embedded catalog from an extraction report",
				Action: buildCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "report",
						Aliases:  []string{"r"},
						Usage:    "Path to the extraction report",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Directory for the export document",
						Value:   ".",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "Optional BadgerDB directory to persist the catalog",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
			{
				Name:   "split",
				Usage:  "Split an export document into N parts",
				Action: splitCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the export document",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "parts",
						Aliases:  []string{"n"},
						Usage:    "Number of parts",
						Required: true,
					},
				},
			},
			{
				Name:   "create-collection",
				Usage:  "Create the vector collection with schema and indexes",
				Action: createCollectionCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Collection service URI",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Collection service API token",
					},
					&cli.StringFlag{
						Name:  "collection",
						Usage: "Collection name",
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Bulk-load an export document into the vector collection",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the export document",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "uri",
						Usage: "Collection service URI",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Collection service API token",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of entries per insert request",
						Value: 500,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search catalog entries by label similarity",
				ArgsUsage: "<query label>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to an export document to search",
					},
					&cli.StringFlag{
						Name:  "db",
						Usage: "BadgerDB directory to search",
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity (strict)",
						Value: search.DefaultThreshold,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func extractCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one feed file is required")
	}

	extractor := hl7.NewExtractor()

	// Each feed file is extracted as its own document so a pair never
	// forms across a file boundary. An unreadable file is reported and
	// skipped, it does not abort the remaining files.
	var perFile []*hl7.Result
	for _, path := range c.Args().Slice() {
		fileLines, err := readLines(path)
		if err != nil {
			slog.Error("skipping unreadable input", "path", path, "err", err)
			continue
		}
		perFile = append(perFile, extractor.Extract(fileLines))
	}
	result := hl7.Merge(perFile...)

	if len(result.Records) == 0 {
		fmt.Fprintln(os.Stderr, "No analyte definitions found.")
		return nil
	}

	reportPath, err := hl7.ExportReport(c.String("out"), result.Records)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Report written to: %s\n", reportPath)
	fmt.Fprintf(os.Stderr, "Unique records: %d\n", result.Stats.UniqueCount)
	fmt.Fprintf(os.Stderr, "Duplicates skipped: %d\n", result.Stats.DuplicateCount)
	fmt.Fprintf(os.Stderr, "Max lengths: code=%d label=%d chapter=%d external=%d\n",
		result.MaxLengths.AnalyteCode,
		result.MaxLengths.Label,
		result.MaxLengths.Chapter,
		result.MaxLengths.ExternalCode)
	fmt.Fprintf(os.Stderr, "Chapters: %s\n", strings.Join(result.Chapters, ", "))

	return nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	records, err := hl7.ParseReportFile(c.String("report"))
	if err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No records to build.")
		return nil
	}

	adapter, err := newAdapter(c, cfg)
	if err != nil {
		return err
	}

	reportInterval := c.Int("report-interval")
	if reportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	builder, err := catalog.NewBuilder(cfg.Table(), adapter,
		catalog.WithProgress(os.Stderr, reportInterval))
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}

	result, err := builder.Build(ctx, records)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	collectionName := cfg.Collection.Name
	if collectionName == "" {
		collectionName = catalog.DefaultCollectionName
	}

	exportPath, err := catalog.ExportFile(c.String("out"), collectionName, result.Entries)
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Export written to: %s\n", exportPath)
	fmt.Fprintf(os.Stderr, "Entries built: %d\n", len(result.Entries))
	fmt.Fprintf(os.Stderr, "Degraded embeddings: %d\n", len(result.Degraded))
	counts := catalog.VectorLengthCounts(result.Entries)
	lengths := make([]int, 0, len(counts))
	for length := range counts {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		fmt.Fprintf(os.Stderr, "%d vectors of length %d\n", counts[length], length)
	}

	// Optionally persist the catalog locally
	if dbPath := c.String("db"); dbPath != "" {
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer backend.Close()

		repo, err := badger.NewCatalogRepository(backend)
		if err != nil {
			return fmt.Errorf("failed to create repository: %w", err)
		}
		defer repo.Close()

		if err := repo.PutEntries(ctx, result.Entries...); err != nil {
			return fmt.Errorf("failed to store entries: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Catalog stored in: %s\n", dbPath)
	}

	return nil
}

func splitCommand(c *cli.Context) error {
	parts := c.Int("parts")
	if parts <= 0 {
		return fmt.Errorf("parts must be greater than 0")
	}

	splitter := catalog.NewSplitter(catalog.WithSplitProgress(os.Stderr))
	written, err := splitter.Split(c.String("file"), parts)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	for _, part := range written {
		fmt.Fprintf(os.Stderr, "%s: %d items, %d bytes\n", part.Path, part.ItemCount, part.SizeBytes)
	}
	return nil
}

func createCollectionCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newMilvusClient(c, cfg)
	if err != nil {
		return err
	}

	if err := client.CreateCollection(ctx); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	state, err := client.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to query load state: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Collection: %s\n", client.Collection())
	fmt.Fprintf(os.Stderr, "Load state: %s\n", state)
	return nil
}

func loadCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	doc, err := catalog.ReadExportFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	batchSize := c.Int("batch-size")
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	client, err := newMilvusClient(c, cfg,
		milvus.WithCollection(doc.CollectionName),
		milvus.WithBatchSize(batchSize))
	if err != nil {
		return err
	}

	total, err := client.Insert(ctx, doc.Data)
	if err != nil {
		return fmt.Errorf("bulk load failed: %w", err)
	}

	if total == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to load.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Loaded %d entries into %s\n", total, client.Collection())
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query label is required")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	entries, err := loadSearchEntries(ctx, c)
	if err != nil {
		return err
	}

	adapter, err := newAdapter(c, cfg)
	if err != nil {
		return err
	}

	searcher, err := search.NewSearcher(entries, adapter,
		search.WithThreshold(c.Float64("threshold")),
		search.WithSynonyms(cfg.Table()))
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "No matches for %q.\n", query)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Results for %q:\n", query)
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%.4f\n", r.AnalyteCode, r.Label, r.Score)
	}
	return nil
}

// loadSearchEntries loads the record set from either an export document or
// the local store.
func loadSearchEntries(ctx context.Context, c *cli.Context) ([]*core.CatalogEntry, error) {
	filePath := c.String("file")
	dbPath := c.String("db")

	switch {
	case filePath != "" && dbPath != "":
		return nil, fmt.Errorf("use either --file or --db, not both")
	case filePath != "":
		doc, err := catalog.ReadExportFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read export: %w", err)
		}
		return doc.Data, nil
	case dbPath != "":
		backend, err := badger.OpenBackend(dbPath, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer backend.Close()

		repo, err := badger.NewCatalogRepository(backend)
		if err != nil {
			return nil, fmt.Errorf("failed to create repository: %w", err)
		}
		defer repo.Close()

		return repo.AllEntries(ctx)
	default:
		return nil, fmt.Errorf("either --file or --db is required")
	}
}

// newAdapter builds the embedding adapter from flags, falling back to the
// config file and defaults.
func newAdapter(c *cli.Context, cfg *config.Config) (*ai.Adapter, error) {
	opts := make([]ai.ConfigOption, 0, 3)
	if host := firstNonEmpty(c.String("embedding-host"), cfg.Embedding.Host); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if model := firstNonEmpty(c.String("embedding-model"), cfg.Embedding.Model); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if cfg.Collection.Dimension > 0 {
		opts = append(opts, ai.WithDimension(cfg.Collection.Dimension))
	}

	aiConfig := ai.NewConfig(opts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return ai.NewAdapter(embedder, aiConfig.Dimension)
}

// newMilvusClient builds the collection service client from flags, falling
// back to the config file.
func newMilvusClient(c *cli.Context, cfg *config.Config, extra ...milvus.Option) (*milvus.Client, error) {
	uri := firstNonEmpty(c.String("uri"), cfg.Milvus.URI)
	if uri == "" {
		return nil, fmt.Errorf("collection service URI is required (flag --uri or config)")
	}
	token := firstNonEmpty(c.String("token"), cfg.Milvus.Token)

	opts := make([]milvus.Option, 0, len(extra)+2)
	if name := firstNonEmpty(c.String("collection"), cfg.Collection.Name); name != "" {
		opts = append(opts, milvus.WithCollection(name))
	}
	if cfg.Collection.Dimension > 0 {
		opts = append(opts, milvus.WithDimension(cfg.Collection.Dimension))
	}
	opts = append(opts, extra...)

	return milvus.NewClient(uri, token, opts...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// readLines reads a file into lines, tolerating very long feed lines.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
