// Package seed parses seed command flags and loads YAML content fixtures
// into the local sqlite content source.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	entrypoint "github.com/madrasahweb/site/internal/platform/cmd"
	cmssqlite "github.com/madrasahweb/site/internal/services/web/cms/sqlite"
	"gopkg.in/yaml.v3"
)

// DefaultFixture is the fixture path relative to the repository root.
const DefaultFixture = "data/fixtures/content.yaml"

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"CMS_SQLITE_PATH" envDefault:"data/content.db"`
	File   string `env:"SEED_FILE"`
	Reset  bool
}

// Fixture is a YAML file of CMS documents.
type Fixture struct {
	Documents []map[string]any `yaml:"documents"`
}

// ParseConfig parses environment and flags into a Config. An empty fixture
// path resolves to DefaultFixture under the repository root.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite content database path")
	fs.StringVar(&cfg.File, "file", cfg.File, "YAML fixture file")
	fs.BoolVar(&cfg.Reset, "reset", false, "remove existing documents before loading")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.File) == "" {
		root, err := repoRoot()
		if err != nil {
			return Config{}, err
		}
		cfg.File = filepath.Join(root, DefaultFixture)
	}
	return cfg, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		n, err := Load(ctx, cfg)
		if err != nil {
			return err
		}
		if out != nil {
			fmt.Fprintf(out, "loaded %d documents into %s\n", n, cfg.DBPath)
		}
		slog.Default().InfoContext(ctx, "seed complete", "documents", n, "db", cfg.DBPath)
		return nil
	})
}

// Load reads cfg.File and writes its documents to cfg.DBPath, returning the
// number of documents stored.
func Load(ctx context.Context, cfg Config) (int, error) {
	f, err := os.Open(cfg.File)
	if err != nil {
		return 0, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	fixture, err := ReadFixture(f)
	if err != nil {
		return 0, fmt.Errorf("read fixture %s: %w", cfg.File, err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create db dir: %w", err)
		}
	}
	store, err := cmssqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return 0, fmt.Errorf("open content store: %w", err)
	}
	defer store.Close()

	if cfg.Reset {
		if err := store.Reset(ctx); err != nil {
			return 0, err
		}
	}
	for i, doc := range fixture.Documents {
		if err := store.PutDocument(ctx, doc); err != nil {
			return i, fmt.Errorf("document %d: %w", i, err)
		}
	}
	return len(fixture.Documents), nil
}

// ReadFixture decodes a fixture. Every document must carry _id and _type.
func ReadFixture(r io.Reader) (Fixture, error) {
	var fixture Fixture
	if err := yaml.NewDecoder(r).Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, errors.New("fixture is empty")
		}
		return Fixture{}, err
	}
	for i, doc := range fixture.Documents {
		for _, key := range []string{"_id", "_type"} {
			value, _ := doc[key].(string)
			if strings.TrimSpace(value) == "" {
				return Fixture{}, fmt.Errorf("document %d: %s is required", i, key)
			}
		}
	}
	return fixture, nil
}

func repoRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("failed to resolve runtime caller")
	}

	dir := filepath.Dir(filename)
	for {
		candidate := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("go.mod not found from %s", filename)
}
