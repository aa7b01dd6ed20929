package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"sqlite-mcp-chat/internal/agent"
	"sqlite-mcp-chat/internal/config"
	"sqlite-mcp-chat/internal/data"
	"sqlite-mcp-chat/internal/llm"
	"sqlite-mcp-chat/internal/store"
	"sqlite-mcp-chat/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	llmClient := llm.NewOpenAI("", cfg.OllamaBaseURL, cfg.OllamaModel, cfg.RequestTimeout)
	log.Printf("🤖 Using model %s via %s", cfg.OllamaModel, cfg.OllamaBaseURL)

	ctx := context.Background()

	mcpClient := data.NewMCPClient()
	if err := mcpClient.Connect(ctx, cfg.MCPServerURL); err != nil {
		log.Fatalf("❌ Failed to connect to MCP server: %v", err)
	}
	defer func() { _ = mcpClient.Close() }()

	if names, err := mcpClient.ListToolNames(ctx); err != nil {
		log.Printf("⚠️ Failed to list tools: %v", err)
	} else {
		log.Printf("🔵 Loaded %d tools: %s", len(names), strings.Join(names, ", "))
	}

	chatAgent := agent.New(llmClient, mcpClient)
	webServer := web.NewServer(chatAgent, st, cfg.WebPort)

	go func() {
		if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Web server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Println("🔌 Chat client shutting down...")
	if err := webServer.Stop(); err != nil {
		log.Printf("❌ Web server shutdown error: %v", err)
	}
}
