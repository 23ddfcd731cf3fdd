package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Nihilentropy-117/Web-Controller/internal/ctxlog"
	"github.com/Nihilentropy-117/Web-Controller/internal/dispatch"
	"github.com/Nihilentropy-117/Web-Controller/web"
)

// requestLogger embeds a request-scoped logger in the context and logs each
// request on completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := ctxlog.With(r.Context(), "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
		ctxlog.FromContext(ctx).Debug("Request handled.",
			"remote_addr", r.RemoteAddr, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func servePage(w http.ResponseWriter, name string) {
	data, err := web.Assets.ReadFile(name)
	if err != nil {
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	servePage(w, "index.html")
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.gate.Authenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	servePage(w, "login.html")
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login?error=invalid", http.StatusSeeOther)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !s.gate.Verify(username, password) {
		ctxlog.FromContext(r.Context()).Warn("Failed login attempt.", "username", username)
		http.Redirect(w, r, "/login?error=invalid", http.StatusSeeOther)
		return
	}

	if err := s.gate.Login(w, r, username); err != nil {
		ctxlog.FromContext(r.Context()).Error("Failed to save session.", "error", err)
		http.Redirect(w, r, "/login?error=invalid", http.StatusSeeOther)
		return
	}
	ctxlog.FromContext(r.Context()).Info("User logged in.", "username", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.gate.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"modules": s.dispatcher.ListModules(r.Context()),
	})
}

func (s *Server) handleModuleStatus(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "id")
	status, err := s.dispatcher.Status(r.Context(), moduleID)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownModule) {
			writeError(w, http.StatusNotFound, "module not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": status})
}

// actionRequest is the body of POST /api/modules/{id}/action.
type actionRequest struct {
	ActionID string         `json:"action_id"`
	Params   map[string]any `json:"params"`
}

func (s *Server) handleModuleAction(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "id")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ActionID == "" {
		writeError(w, http.StatusBadRequest, "action_id is required")
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), moduleID, req.ActionID, req.Params)
	if err != nil {
		if errors.Is(err, dispatch.ErrUnknownModule) {
			writeError(w, http.StatusNotFound, "module not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	count, err := s.reg.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ctxlog.FromContext(r.Context()).Info("Modules reloaded.", "count", count)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Reloaded %d modules", count),
		"modules": s.reg.Snapshot().IDs(),
	})
}
