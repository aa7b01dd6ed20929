package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Storage
	DBPath string `env:"DB_PATH" envDefault:"demo.db"`

	// Tool host
	MCPPort      int    `env:"MCP_PORT" envDefault:"8000"`
	MCPServerURL string `env:"MCP_SERVER_URL" envDefault:"http://127.0.0.1:8000/mcp"`

	// LLM settings
	OllamaBaseURL  string        `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`
	OllamaModel    string        `env:"OLLAMA_MODEL" envDefault:"granite3.1-moe"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"300s"`

	// Web client
	WebPort int `env:"WEB_PORT" envDefault:"7860"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
