package web

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
)

// StorefrontPage handles GET /.
func (s *Server) StorefrontPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "index.html", PageData{Title: "Shut Up and Take My Things", Script: "js/public.js"})
}

// AdminPage handles GET /admin. The page itself is public; its script
// redirects to the login page when no valid token is stored.
func (s *Server) AdminPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "admin.html", PageData{Title: "Admin", Script: "js/admin.js", Admin: true})
}

// LoginPage handles GET /admin-login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "admin-login.html", PageData{Title: "Admin Login", Script: "js/login.js", Admin: true})
}

// UploadedFile handles GET /uploads/{name}.
func (s *Server) UploadedFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.Uploads.Path(r.PathValue("name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("failed to open upload", "path", path, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
