package litquiz

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the server and the CLI
type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		SessionKey  string   `yaml:"session_key"`
		SessionDir  string   `yaml:"session_dir"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Generation struct {
		Provider      Provider `yaml:"provider"`
		BaseURL       string   `yaml:"base_url"`
		Models        []string `yaml:"models"`
		QuestionCount int      `yaml:"question_count"`
		Timeout       string   `yaml:"timeout"`
	} `yaml:"generation"`
	Content struct {
		JSONPath string `yaml:"json_path"`
		DBPath   string `yaml:"db_path"`
	} `yaml:"content"`
	Log struct {
		Verbose       bool   `yaml:"verbose"`
		TranscriptDir string `yaml:"transcript_dir"`
	} `yaml:"log"`
}

// DefaultConfig returns the settings used when no file is present
func DefaultConfig() Config {
	cfg := Config{}
	cfg.Server.Port = "8180"
	cfg.Generation.Provider = ProviderGemini
	cfg.Generation.Models = append([]string(nil), DefaultGeminiModels...)
	cfg.Generation.QuestionCount = DefaultQuestionCount
	cfg.Generation.Timeout = "2m"
	cfg.Content.JSONPath = "extracted_content/chapters_content.json"
	return cfg
}

// LoadConfig reads YAML config from path on top of DefaultConfig. A missing
// file is not an error. PORT and LITQUIZ_VERBOSE override the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			VerboseLog("Config file %s not found, using defaults", path)
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if v := os.Getenv("LITQUIZ_VERBOSE"); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Verbose = verbose
		}
	}
	if len(cfg.Generation.Models) == 0 {
		cfg.Generation.Models = append([]string(nil), DefaultGeminiModels...)
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = ProviderGemini
	}
	return cfg, nil
}

// GenerationTimeout returns the per-request timeout for quiz generation
func (c Config) GenerationTimeout() time.Duration {
	return DurationOr(c.Generation.Timeout, 2*time.Minute)
}

// DurationOr parses a duration string or returns the fallback if empty or invalid.
func DurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// OpenReferenceStore opens the configured reference text source. The SQLite
// database wins over the JSON file when both are set. The returned close
// function is never nil.
func (c Config) OpenReferenceStore() (ReferenceStore, func() error, error) {
	noop := func() error { return nil }
	if c.Content.DBPath != "" {
		db, err := OpenContentDB(c.Content.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := db.CreateTables(); err != nil {
			db.Close()
			return nil, noop, err
		}
		return db, db.Close, nil
	}
	if c.Content.JSONPath != "" {
		table, err := LoadContentFile(c.Content.JSONPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				VerboseLog("No pre-extracted content found at %s", c.Content.JSONPath)
				return NewContentTable(nil), noop, nil
			}
			return nil, noop, err
		}
		return table, noop, nil
	}
	return NewContentTable(nil), noop, nil
}

// NewGenerator wires a QuizGenerator from the configuration
func (c Config) NewGenerator(refs ReferenceStore) (*QuizGenerator, error) {
	factory, err := NewBackendFactory(c.Generation.Provider, c.Generation.BaseURL)
	if err != nil {
		return nil, err
	}
	var opts []GeneratorOption
	if c.Log.TranscriptDir != "" {
		opts = append(opts, WithTranscriptDir(c.Log.TranscriptDir))
	}
	return NewQuizGenerator(refs, NewModelChain(c.Generation.Models), factory, opts...), nil
}
