// Package config loads the YAML run configuration: collection settings,
// embedding service, vector DB connection, and the ordered synonym table.
package config

import (
	"os"

	"github.com/poiesic/anadex/label"
	"gopkg.in/yaml.v3"
)

// Config stores the run configuration loaded from a YAML file.
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Milvus     MilvusConfig     `yaml:"milvus"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Synonyms   []SynonymEntry   `yaml:"synonyms"`
}

// CollectionConfig holds catalog collection settings.
type CollectionConfig struct {
	Name      string `yaml:"name"`
	Dimension int    `yaml:"dimension"`
}

// MilvusConfig holds vector collection service connection settings.
type MilvusConfig struct {
	URI   string `yaml:"uri"`
	Token string `yaml:"token"`
}

// EmbeddingConfig holds embedding service settings.
type EmbeddingConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// SynonymEntry is one canonical label with its synonym slugs.
// Declaration order in the file is significant: when several canonicals
// could claim a slug, the first declared entry wins.
type SynonymEntry struct {
	Canonical string   `yaml:"canonical"`
	Synonyms  []string `yaml:"synonyms"`
}

// Table converts the configured synonym entries to a label.Table,
// preserving declaration order.
func (c *Config) Table() label.Table {
	entries := make([]label.Entry, len(c.Synonyms))
	for i, s := range c.Synonyms {
		entries[i] = label.Entry{
			Canonical: s.Canonical,
			Synonyms:  s.Synonyms,
		}
	}
	return label.NewTable(entries...)
}

// Load reads config from path. Returns default config if the file doesn't
// exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
