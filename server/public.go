package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexraskin/linkflow/internal/bridge"
	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/publish"
	"github.com/alexraskin/linkflow/internal/theme"
)

const maxBeaconBytes = 4 << 10

// hostConfig is what static/bridge.js reads from the host page.
type hostConfig struct {
	Origins     []string `json:"origins"`
	Endpoint    string   `json:"endpoint"`
	Token       string   `json:"token"`
	MessageType string   `json:"messageType"`
}

func (s *Server) publishProfile(w http.ResponseWriter, r *http.Request) (publish.Page, *models.Snapshot, bool) {
	username := chi.URLParam(r, "username")

	snap, err := s.snapshots.Load(r.Context(), username)
	if errors.Is(err, database.ErrNotFound) {
		s.renderError(w, http.StatusNotFound)
		return publish.Page{}, nil, false
	}
	if err != nil {
		slog.Error("Failed to load profile", "username", username, "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return publish.Page{}, nil, false
	}

	page, err := s.publisher.Publish(*snap)
	if err != nil {
		slog.Error("Failed to publish profile", "username", username, "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return publish.Page{}, nil, false
	}
	return page, snap, true
}

func (s *Server) HandleProfile(w http.ResponseWriter, r *http.Request) {
	page, snap, ok := s.publishProfile(w, r)
	if !ok {
		return
	}

	cfg, err := json.Marshal(hostConfig{
		Origins:     s.cfg.BridgeOrigins,
		Endpoint:    "/api/bridge",
		Token:       page.Token,
		MessageType: bridge.TypeCopyToClipboard,
	})
	if err != nil {
		slog.Error("Failed to encode host config", "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}

	data := models.ProfilePageData{
		Title:      page.Document.Title,
		Username:   snap.Profile.Username,
		SrcDoc:     page.Frame.SrcDoc,
		Sandbox:    page.Frame.Sandbox,
		HostConfig: template.JS(cfg),
	}
	if page.RefreshAfter > 0 {
		data.RefreshSeconds = int(math.Ceil(page.RefreshAfter.Seconds()))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmplFunc(w, "profile.html", data); err != nil {
		slog.Error("Failed to render profile template", "error", err)
	}
}

// HandleFrame serves the isolated document on its own, sandboxed by CSP
// instead of the iframe attribute.
func (s *Server) HandleFrame(w http.ResponseWriter, r *http.Request) {
	page, _, ok := s.publishProfile(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "sandbox "+page.Frame.Sandbox)
	_, _ = io.WriteString(w, page.Frame.SrcDoc)
}

type beacon struct {
	LinkID string `json:"linkId"`
	Token  string `json:"token"`
}

// HandleTrack receives click beacons from the frame. Beacons arrive as
// text/plain, so the body is decoded regardless of content type.
func (s *Server) HandleTrack(w http.ResponseWriter, r *http.Request) {
	var b beacon
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBeaconBytes)).Decode(&b); err != nil || b.LinkID == "" {
		http.Error(w, "invalid beacon", http.StatusBadRequest)
		return
	}
	userID, err := s.tokens.Verify(b.Token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	s.tracker.TrackClick(r.Context(), userID, b.LinkID)
	w.WriteHeader(http.StatusNoContent)
}

type relayRequest struct {
	Origin  string          `json:"origin"`
	Token   string          `json:"token"`
	Message json.RawMessage `json:"message"`
}

// HandleBridge receives frame messages relayed by the host page and runs
// them through the bridge policy.
func (s *Server) HandleBridge(w http.ResponseWriter, r *http.Request) {
	var req relayRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 32<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	msg, err := bridge.Decode(bytes.NewReader(req.Message))
	if err != nil {
		http.Error(w, "invalid message", http.StatusBadRequest)
		return
	}
	userID, err := s.tokens.Verify(req.Token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	ack, err := s.bridge.Handle(r.Context(), bridge.Envelope{Origin: req.Origin, UserID: userID, Message: msg})
	if errors.Is(err, bridge.ErrOriginDenied) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}
	if err != nil {
		slog.Error("Bridge message failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// HandleRedirect counts a click and forwards to the link target. Links
// outside their schedule or switched off are not served.
func (s *Server) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	link, ownerID, err := s.db.GetLink(r.Context(), linkID)
	if errors.Is(err, database.ErrNotFound) || (err == nil && !links.IsVisible(*link, s.now())) {
		s.renderError(w, http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to load link", "link_id", linkID, "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}

	s.tracker.TrackClick(r.Context(), ownerID, link.ID)
	http.Redirect(w, r, link.URL, http.StatusFound)
}

func (s *Server) HandleThemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"themes": theme.IDs()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
