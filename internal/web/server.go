// Package web exposes the agent desk over an HTTP JSON API.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentdesk/agentdesk/internal/agents"
	"github.com/agentdesk/agentdesk/internal/chat"
	"github.com/agentdesk/agentdesk/internal/config"
	"github.com/agentdesk/agentdesk/internal/convo"
	"github.com/agentdesk/agentdesk/internal/llm"
	"github.com/agentdesk/agentdesk/internal/userctx"
)

// NewServer creates and configures the HTTP server for the agent desk API.
func NewServer(db *sql.DB, cfg *config.Config, client llm.Client, version, bind string, port int) *http.Server {
	h := &Handlers{
		cfg:       cfg,
		version:   version,
		repo:      agents.NewRepository(db, cfg),
		userCtx:   userctx.NewContextStore(db),
		overrides: userctx.NewOverrideStore(db),
		memories:  userctx.NewMemoryStore(db, cfg),
		convos:    convo.NewStore(db, cfg),
		windows:   convo.NewWindowStore(db),
		gateway:   chat.NewGateway(db, cfg, client),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/agents", h.HandleAgentList)
	mux.HandleFunc("GET /api/agents/{id}", h.HandleAgentGet)
	mux.HandleFunc("POST /api/agents", h.HandleAgentSave)
	mux.HandleFunc("DELETE /api/agents/{id}", h.HandleAgentDelete)
	mux.HandleFunc("POST /api/agents/{id}/duplicate", h.HandleAgentDuplicate)
	mux.HandleFunc("GET /api/agents/{id}/compile", h.HandleAgentCompile)
	mux.HandleFunc("GET /api/agents/{id}/preview", h.HandleAgentPreview)

	mux.HandleFunc("GET /api/context", h.HandleContextGet)
	mux.HandleFunc("PUT /api/context", h.HandleContextSet)
	mux.HandleFunc("GET /api/context/serialize", h.HandleContextSerialize)
	mux.HandleFunc("GET /api/context/templates", h.HandleTemplateList)
	mux.HandleFunc("POST /api/context/templates/{id}/apply", h.HandleTemplateApply)

	mux.HandleFunc("GET /api/overrides", h.HandleOverrideList)
	mux.HandleFunc("PUT /api/overrides/{id}", h.HandleOverrideSet)
	mux.HandleFunc("DELETE /api/overrides", h.HandleOverrideClear)

	mux.HandleFunc("GET /api/memories", h.HandleMemoryList)
	mux.HandleFunc("POST /api/memories", h.HandleMemorySave)
	mux.HandleFunc("DELETE /api/memories", h.HandleMemoryClear)

	mux.HandleFunc("GET /api/agents/{id}/conversations", h.HandleConversationList)
	mux.HandleFunc("POST /api/agents/{id}/conversations", h.HandleConversationSave)
	mux.HandleFunc("DELETE /api/agents/{id}/conversations/{conversationID}", h.HandleConversationDelete)
	mux.HandleFunc("DELETE /api/agents/{id}/conversations", h.HandleConversationClear)

	mux.HandleFunc("GET /api/windows", h.HandleWindowsGet)
	mux.HandleFunc("PUT /api/windows", h.HandleWindowsSet)
	mux.HandleFunc("DELETE /api/windows", h.HandleWindowsClear)

	mux.HandleFunc("POST /api/chat", h.HandleChat)

	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("agentdesk API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
