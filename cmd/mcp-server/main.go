package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"sqlite-mcp-chat/internal/config"
	"sqlite-mcp-chat/internal/mcphost"
	"sqlite-mcp-chat/internal/store"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	log.Printf("🔧 Connecting to SQLite DB: %s", cfg.DBPath)
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer func() { _ = st.Close() }()
	log.Printf("✅ Tables are ready.")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "sqlite-mcp-server",
		Version: "1.0.0",
	}, nil)

	host := mcphost.NewServer(st)
	host.Register(server)

	handler := mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return server })

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("SQLite MCP server is running"))
	})

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.MCPPort),
		Handler: mux,
	}

	go func() {
		log.Printf("🚀 SQLite MCP server listening on http://127.0.0.1:%d/mcp", cfg.MCPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh

	log.Println("🔌 SQLite MCP server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}
}
