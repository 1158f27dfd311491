package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/alexraskin/linkflow/internal/database"
	"github.com/alexraskin/linkflow/internal/links"
	"github.com/alexraskin/linkflow/internal/models"
	"github.com/alexraskin/linkflow/internal/theme"
)

func (s *Server) renderError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmplFunc(w, "error.html", models.ErrorPageData{Status: status, Text: http.StatusText(status)}); err != nil {
		slog.Error("Failed to render error template", "error", err)
	}
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmplFunc(w, "index.html", models.IndexPageData{Version: s.cfg.Version}); err != nil {
		slog.Error("Failed to render index template", "error", err)
	}
}

func (s *Server) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.validateSession(s.getSessionFromRequest(r)); ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmplFunc(w, "login.html", nil); err != nil {
		slog.Error("Failed to render login template", "error", err)
	}
}

func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	profile, valid, err := s.db.VerifyPassword(r.Context(), username, password)
	if err != nil {
		slog.Error("Failed to verify password", "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}

	if !valid {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.tmplFunc(w, "login.html", map[string]string{"Error": "Invalid username or password"}); err != nil {
			slog.Error("Failed to render login template", "error", err)
		}
		return
	}

	token := s.createSession(profile.ID, profile.Username)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		SameSite: http.SameSiteStrictMode,
	})

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	s.deleteSession(s.getSessionFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	profile, err := s.db.GetProfileByUsername(r.Context(), sess.Username)
	if errors.Is(err, database.ErrNotFound) {
		s.deleteSession(s.getSessionFromRequest(r))
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		slog.Error("Failed to load profile", "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}
	ls, err := s.db.GetLinksForProfile(r.Context(), profile.ID)
	if err != nil {
		slog.Error("Failed to load links", "error", err)
		s.renderError(w, http.StatusInternalServerError)
		return
	}

	data := models.AdminPageData{
		Profile: *profile,
		Links:   ls,
		Themes:  theme.IDs(),
		Message: r.URL.Query().Get("message"),
		Error:   r.URL.Query().Get("error"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmplFunc(w, "admin.html", data); err != nil {
		slog.Error("Failed to render admin template", "error", err)
	}
}

// gradientForm reads a gradient pair. Invalid colors are an error; two
// empty fields mean no gradient.
func gradientForm(r *http.Request, prefix string) (*models.Gradient, bool) {
	from := strings.TrimSpace(r.FormValue(prefix + "_from"))
	to := strings.TrimSpace(r.FormValue(prefix + "_to"))
	for _, c := range []string{from, to} {
		if c != "" && !theme.ValidColor(c) {
			return nil, false
		}
	}
	if from == "" && to == "" {
		return nil, true
	}
	return &models.Gradient{From: from, To: to}, true
}

func (s *Server) HandleUpdateAppearance(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	themeID := r.FormValue("theme")
	if !theme.Known(themeID) {
		http.Redirect(w, r, "/admin?error=Unknown+theme", http.StatusSeeOther)
		return
	}
	bg, ok := gradientForm(r, "bg")
	if !ok {
		http.Redirect(w, r, "/admin?error=Invalid+background+color", http.StatusSeeOther)
		return
	}
	btn, ok := gradientForm(r, "btn")
	if !ok {
		http.Redirect(w, r, "/admin?error=Invalid+button+color", http.StatusSeeOther)
		return
	}

	a := models.Appearance{
		DisplayName:        r.FormValue("display_name"),
		Bio:                r.FormValue("bio"),
		AvatarURL:          r.FormValue("avatar_url"),
		Theme:              themeID,
		ButtonStyle:        models.ParseButtonStyle(r.FormValue("button_style")),
		AnimatedBackground: r.FormValue("animated_background") == "true",
		BackgroundGradient: bg,
		ButtonGradient:     btn,
	}
	if script := strings.TrimSpace(r.FormValue("bot_script")); script != "" {
		a.Bot = &models.BotConfig{Script: script, AutoOpen: r.FormValue("bot_auto_open") == "true"}
	}

	if err := s.db.UpdateAppearance(r.Context(), sess.ProfileID, a); err != nil {
		slog.Error("Failed to update appearance", "error", err)
		http.Redirect(w, r, "/admin?error=Failed+to+save", http.StatusSeeOther)
		return
	}
	s.snapshots.Invalidate(r.Context(), sess.Username)

	http.Redirect(w, r, "/admin?message=Appearance+updated", http.StatusSeeOther)
}

// formLocation is the owner's browser time zone, sent by the admin page in
// the "tz" field. datetime-local inputs carry no offset.
func formLocation(r *http.Request) *time.Location {
	name := strings.TrimSpace(r.FormValue("tz"))
	if name == "" || name == "Local" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("Unknown form time zone, using UTC", "tz", name, "error", err)
		return time.UTC
	}
	return loc
}

func instantField(r *http.Request, key string, loc *time.Location) *time.Time {
	t, ok := links.ParseInstantIn(r.FormValue(key), loc)
	if !ok {
		return nil
	}
	return &t
}

func (s *Server) HandleAddLink(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	title := strings.TrimSpace(r.FormValue("title"))
	url := strings.TrimSpace(r.FormValue("url"))

	if title == "" || url == "" {
		http.Redirect(w, r, "/admin?error=Title+and+URL+are+required", http.StatusSeeOther)
		return
	}

	loc := formLocation(r)
	order, _ := strconv.Atoi(r.FormValue("order"))
	link := models.Link{
		Title:     title,
		URL:       url,
		Order:     order,
		Active:    r.FormValue("active") != "false",
		StartDate: instantField(r, "start_date", loc),
		EndDate:   instantField(r, "end_date", loc),
		IsSocial:  r.FormValue("is_social") == "true",
		IsSupport: r.FormValue("is_support") == "true",
	}

	if err := s.db.AddLink(r.Context(), sess.ProfileID, link); err != nil {
		slog.Error("Failed to add link", "error", err)
		http.Redirect(w, r, "/admin?error=Failed+to+save", http.StatusSeeOther)
		return
	}
	s.snapshots.Invalidate(r.Context(), sess.Username)

	http.Redirect(w, r, "/admin?message=Link+added+successfully", http.StatusSeeOther)
}

func (s *Server) HandleDeleteLink(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)

	if err := s.db.DeleteLink(r.Context(), sess.ProfileID, r.FormValue("id")); err != nil {
		slog.Error("Failed to delete link", "error", err)
		http.Redirect(w, r, "/admin?error=Failed+to+delete", http.StatusSeeOther)
		return
	}
	s.snapshots.Invalidate(r.Context(), sess.Username)

	http.Redirect(w, r, "/admin?message=Link+deleted", http.StatusSeeOther)
}

func (s *Server) HandleToggleActive(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	active := r.FormValue("active") == "true"

	if err := s.db.SetLinkActive(r.Context(), sess.ProfileID, r.FormValue("id"), active); err != nil {
		slog.Error("Failed to update link status", "error", err)
		http.Redirect(w, r, "/admin?error=Failed+to+update", http.StatusSeeOther)
		return
	}
	s.snapshots.Invalidate(r.Context(), sess.Username)

	http.Redirect(w, r, "/admin?message=Link+updated", http.StatusSeeOther)
}

func (s *Server) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	newPassword := r.FormValue("new_password")

	if len(newPassword) < 8 {
		http.Redirect(w, r, "/admin?error=Password+must+be+at+least+8+characters", http.StatusSeeOther)
		return
	}

	if err := s.db.SetPassword(r.Context(), sess.ProfileID, newPassword); err != nil {
		slog.Error("Failed to update password", "error", err)
		http.Redirect(w, r, "/admin?error=Failed+to+save", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin?message=Password+updated", http.StatusSeeOther)
}

func (s *Server) serveFile(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := s.assets.Open(path)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer func() { _ = file.Close() }()
		_, _ = io.Copy(w, file)
	}
}

func (s *Server) cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/static/") {
			w.Header().Set("Cache-Control", "public, max-age=86400")
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}
