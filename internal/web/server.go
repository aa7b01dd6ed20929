package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"sqlite-mcp-chat/internal/agent"
	"sqlite-mcp-chat/internal/history"
	"sqlite-mcp-chat/internal/llm"
	"sqlite-mcp-chat/internal/store"
)

const sessionCookie = "chat_session"

// ChatAgent processes one chat turn.
type ChatAgent interface {
	ProcessMessage(ctx context.Context, hist []llm.Message, userMessage string) (agent.Reply, error)
}

// Server serves the chat page and its JSON API.
type Server struct {
	agent     ChatAgent
	recorder  store.Recorder
	history   *history.Manager
	server    *http.Server
	port      int
	startTime time.Time

	// one chat turn at a time
	turnMu sync.Mutex
}

func NewServer(chatAgent ChatAgent, recorder store.Recorder, port int) *Server {
	return &Server{
		agent:     chatAgent,
		recorder:  recorder,
		history:   history.NewManager(),
		port:      port,
		startTime: time.Now(),
	}
}

// Start runs the web server. It blocks until the server stops.
func (ws *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/chat", ws.handleChat)
	mux.HandleFunc("/api/interactions", ws.handleInteractions)
	mux.HandleFunc("/api/reset", ws.handleReset)
	mux.HandleFunc("/api/status", ws.handleStatus)
	mux.HandleFunc("/", ws.handleIndex)

	ws.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", ws.port),
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	log.Printf("🌐 Starting chat web server on http://localhost:%d", ws.port)
	return ws.server.ListenAndServe()
}

// Stop shuts the web server down gracefully.
func (ws *Server) Stop() error {
	if ws.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ws.server.Shutdown(ctx)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply        string  `json:"reply"`
	ToolUsed     string  `json:"tool_used,omitempty"`
	TimeTakenSec float64 `json:"time_taken_sec"`
}

// handleChat runs one chat turn. Every call, including failed ones, appends
// exactly one row to the interaction log.
func (ws *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	sessionID := ws.sessionID(w, r)

	ws.turnMu.Lock()
	defer ws.turnMu.Unlock()

	log.Printf("🟢 USER: %s", req.Message)

	start := time.Now()
	reply, err := ws.agent.ProcessMessage(r.Context(), ws.history.Get(sessionID), req.Message)
	elapsed := roundSec(time.Since(start))

	replyText := reply.Text
	if err != nil {
		log.Printf("❌ Turn failed: %v", err)
		replyText = fmt.Sprintf("⚠️ [ERROR] %v", err)
	}

	log.Printf("🟣 ASSISTANT: %s", replyText)

	ws.history.AppendUser(sessionID, req.Message)
	ws.history.AppendAssistant(sessionID, replyText)

	ev := store.Interaction{
		Prompt:       req.Message,
		Response:     replyText,
		ToolUsed:     reply.ToolUsed,
		TimeTakenSec: elapsed,
		Timestamp:    time.Now().UTC(),
	}
	// The log write must survive a client disconnect: a canceled request
	// context would otherwise drop the row for exactly the turns that failed.
	logCtx, cancelLog := context.WithTimeout(context.WithoutCancel(r.Context()), 5*time.Second)
	defer cancelLog()
	if lerr := ws.recorder.AppendInteraction(logCtx, ev); lerr != nil {
		log.Printf("❌ Failed to log interaction: %v", lerr)
	} else {
		log.Printf("💾 Logged interaction in %.3f sec", elapsed)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(chatResponse{
		Reply:        replyText,
		ToolUsed:     reply.ToolUsed,
		TimeTakenSec: elapsed,
	})
}

// handleInteractions returns the most recent interaction log rows.
func (ws *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := ws.recorder.RecentInteractions(r.Context(), limit)
	if err != nil {
		log.Printf("❌ Failed to load interactions: %v", err)
		http.Error(w, "Failed to load interactions", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []store.Interaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

// handleReset clears the conversation history of the calling session.
func (ws *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if c, err := r.Cookie(sessionCookie); err == nil {
		ws.history.Reset(c.Value)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

func (ws *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(ws.startTime).Round(time.Second).String(),
	})
}

func (ws *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		log.Printf("❌ Failed to render index: %v", err)
	}
}

// sessionID returns the caller's session ID, assigning one when missing.
func (ws *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return id
}

func roundSec(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>SQLite MCP Chatbot</title>
<style>
body { font-family: sans-serif; margin: 0; background: #f5f7fa; }
header { padding: 16px 24px; background: #fff; border-bottom: 1px solid #e0e4ea; }
header h1 { margin: 0; font-size: 20px; }
main { display: flex; gap: 24px; padding: 24px; align-items: flex-start; }
.panel { background: #fff; border: 1px solid #e0e4ea; border-radius: 8px; padding: 16px; }
#chat { flex: 2; }
#recent { flex: 1; font-family: monospace; font-size: 13px; }
#transcript { height: 400px; overflow-y: auto; border: 1px solid #e0e4ea; border-radius: 4px; padding: 12px; margin-bottom: 12px; }
.msg { margin-bottom: 10px; }
.msg.user { color: #1a6b2f; }
.msg.assistant { color: #20396b; }
.msg .who { font-weight: bold; }
#controls { display: flex; gap: 8px; }
#input { flex: 1; padding: 8px; }
button { padding: 8px 16px; cursor: pointer; }
.entry { margin-bottom: 12px; padding: 10px; border-left: 4px solid #4A90E2; }
</style>
</head>
<body>
<header><h1>🧠 SQLite MCP Chatbot</h1></header>
<main>
  <div id="chat" class="panel">
    <div id="transcript"></div>
    <div id="controls">
      <input id="input" placeholder="Type your question…" autofocus>
      <button id="send">Submit</button>
      <button id="clear">Clear Chat</button>
    </div>
  </div>
  <div id="recent" class="panel">
    <h3>📜 Recent Interactions (Last 5)</h3>
    <div id="entries"></div>
  </div>
</main>
<script>
const transcript = document.getElementById('transcript');
const input = document.getElementById('input');

function addMessage(who, text) {
  const div = document.createElement('div');
  div.className = 'msg ' + who;
  const label = document.createElement('span');
  label.className = 'who';
  label.textContent = who === 'user' ? 'You: ' : 'Assistant: ';
  div.appendChild(label);
  div.appendChild(document.createTextNode(text));
  transcript.appendChild(div);
  transcript.scrollTop = transcript.scrollHeight;
}

async function refreshRecent() {
  const res = await fetch('/api/interactions?limit=5');
  if (!res.ok) return;
  const events = await res.json();
  const entries = document.getElementById('entries');
  entries.innerHTML = '';
  for (const ev of events) {
    const div = document.createElement('div');
    div.className = 'entry';
    const resp = ev.response.length > 300 ? ev.response.slice(0, 300) + '…' : ev.response;
    div.textContent = '🕒 ' + ev.timestamp + '\nPrompt: ' + ev.prompt + '\nResponse: ' + resp +
      '\n⏱ ' + ev.time_taken_sec + ' sec' + (ev.tool_used ? ' · 🔧 ' + ev.tool_used : '');
    div.style.whiteSpace = 'pre-wrap';
    entries.appendChild(div);
  }
}

async function send() {
  const message = input.value.trim();
  if (!message) return;
  input.value = '';
  addMessage('user', message);
  const res = await fetch('/api/chat', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({message})
  });
  if (!res.ok) {
    addMessage('assistant', '⚠️ request failed: ' + res.status);
    return;
  }
  const out = await res.json();
  addMessage('assistant', out.reply);
  refreshRecent();
}

document.getElementById('send').onclick = send;
input.addEventListener('keydown', e => { if (e.key === 'Enter') send(); });
document.getElementById('clear').onclick = async () => {
  await fetch('/api/reset', {method: 'POST'});
  transcript.innerHTML = '';
};

refreshRecent();
</script>
</body>
</html>
`))
