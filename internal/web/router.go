package web

import (
	"net/http"

	"github.com/martomarzo/shutupandtakemythings/internal/upload"
	webembed "github.com/martomarzo/shutupandtakemythings/web"
)

// Server holds all dependencies for page handlers.
type Server struct {
	Templates *Templates
	Uploads   *upload.Store
}

// NewRouter creates the web router serving pages, static assets and
// uploaded images.
func NewRouter(uploads *upload.Store) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	staticFS, err := webembed.StaticFS()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Templates: templates,
		Uploads:   uploads,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", noListing(http.FileServer(http.FS(staticFS)))))
	mux.HandleFunc("GET "+upload.URLPrefix+"{name}", s.UploadedFile)

	mux.HandleFunc("GET /{$}", s.StorefrontPage)
	mux.HandleFunc("GET /admin", s.AdminPage)
	mux.HandleFunc("GET /admin-login", s.LoginPage)

	return mux, nil
}

// noListing hides directory indexes served by http.FileServer.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
