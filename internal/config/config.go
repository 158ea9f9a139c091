package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "./configs/config.yaml"

	defaultBaseURL          = "https://api.groq.com/openai/v1"
	defaultChatModel        = "llama3-70b-8192"
	defaultUtilityModel     = "llama3-8b-8192"
	defaultTemperature      = 0.7
	defaultTimeout          = 60 * time.Second
	defaultDataDir          = "./ap-data-by-period"
	defaultTopK             = 3
	defaultChunkSize        = 500
	defaultOverlapSentences = 2
	defaultMemoryPath       = "memory.jsonl"
	defaultLogLevel         = "info"

	apiKeyEnv = "GROQ_API_KEY"
)

var ErrMissingAPIKey = errors.New("llm api key is not set (set " + apiKeyEnv + " or llm.key)")

type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	RAG    RAGConfig    `yaml:"rag"`
	Memory MemoryConfig `yaml:"memory"`
	Log    LogConfig    `yaml:"log"`
}

type LLMConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Key          string        `yaml:"key"`
	ChatModel    string        `yaml:"chat_model"`
	UtilityModel string        `yaml:"utility_model"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
}

type RAGConfig struct {
	DataDir          string `yaml:"data_dir"`
	TopK             int    `yaml:"top_k"`
	ChunkSize        int    `yaml:"chunk_size"`
	OverlapSentences int    `yaml:"overlap_sentences"`
}

type MemoryConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:      defaultBaseURL,
			ChatModel:    defaultChatModel,
			UtilityModel: defaultUtilityModel,
			Temperature:  defaultTemperature,
			Timeout:      defaultTimeout,
		},
		RAG: RAGConfig{
			DataDir:          defaultDataDir,
			TopK:             defaultTopK,
			ChunkSize:        defaultChunkSize,
			OverlapSentences: defaultOverlapSentences,
		},
		Memory: MemoryConfig{Path: defaultMemoryPath},
		Log:    LogConfig{Level: defaultLogLevel},
	}
}

// LoadConfig reads the yaml file at path on top of the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.LLM.BaseURL = expandEnv(cfg.LLM.BaseURL)
	cfg.LLM.Key = expandEnv(cfg.LLM.Key)
	cfg.RAG.DataDir = expandEnv(cfg.RAG.DataDir)
	cfg.Memory.Path = expandEnv(cfg.Memory.Path)
	if cfg.LLM.Key == "" || strings.HasPrefix(cfg.LLM.Key, "$") {
		cfg.LLM.Key = os.Getenv(apiKeyEnv)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors. The api key is checked separately by
// RequireAPIKey since offline commands do not need it.
func (c *Config) Validate() error {
	if c.RAG.TopK < 1 {
		return fmt.Errorf("config: rag.top_k must be positive, got %d", c.RAG.TopK)
	}
	if c.RAG.ChunkSize < 1 {
		return fmt.Errorf("config: rag.chunk_size must be positive, got %d", c.RAG.ChunkSize)
	}
	if c.RAG.OverlapSentences < 0 {
		return fmt.Errorf("config: rag.overlap_sentences must not be negative, got %d", c.RAG.OverlapSentences)
	}
	if c.RAG.DataDir == "" {
		return fmt.Errorf("config: rag.data_dir is required")
	}
	if c.Memory.Path == "" {
		return fmt.Errorf("config: memory.path is required")
	}
	if c.LLM.ChatModel == "" || c.LLM.UtilityModel == "" {
		return fmt.Errorf("config: llm.chat_model and llm.utility_model are required")
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = defaultTimeout
	}
	return nil
}

func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.LLM.Key) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

var envVarRe = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)

func expandEnv(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}
