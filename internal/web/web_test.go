package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/martomarzo/shutupandtakemythings/internal/upload"
)

func setupTestServer(t *testing.T) (*httptest.Server, *upload.Store) {
	t.Helper()
	uploads, err := upload.NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	router, err := NewRouter(uploads)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, uploads
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestPages(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		path   string
		script string
	}{
		{"/", "/static/js/public.js"},
		{"/admin", "/static/js/admin.js"},
		{"/admin-login", "/static/js/login.js"},
	}
	for _, tt := range tests {
		resp, body := get(t, server.URL+tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", tt.path, resp.StatusCode)
			continue
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("GET %s: unexpected content type %q", tt.path, ct)
		}
		if !strings.Contains(body, tt.script) {
			t.Errorf("GET %s: expected page to load %s", tt.path, tt.script)
		}
	}

	resp, _ := get(t, server.URL+"/does-not-exist")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown page, got %d", resp.StatusCode)
	}
}

func TestStaticAssets(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, body := get(t, server.URL+"/static/js/api.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for api.js, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "/api/admin/items") {
		t.Error("expected shared client to reference the admin items endpoint")
	}
	i := strings.Index(body, "'/api/admin/change-password'")
	if i < 0 || !strings.Contains(body[i:], "keepSession: true") {
		t.Error("expected password change to keep the session on a rejected password")
	}

	for _, path := range []string{"/static/", "/static/js/"} {
		if resp, _ := get(t, server.URL+path); resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s: expected 404 for directory, got %d", path, resp.StatusCode)
		}
	}
}

func TestUploadedFiles(t *testing.T) {
	server, uploads := setupTestServer(t)

	name := "item-1-test.png"
	path := filepath.Join(uploads.Dir(), name)
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644); err != nil {
		t.Fatalf("writing upload: %v", err)
	}

	resp, _ := get(t, server.URL+upload.URL(name))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for stored file, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}

	if err := uploads.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp, _ := get(t, server.URL+upload.URL(name)); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}

	pending := filepath.Join(uploads.Dir(), ".upload-123456")
	if err := os.WriteFile(pending, []byte("\x89PNG\r\n\x1a\n"), 0600); err != nil {
		t.Fatalf("writing pending upload: %v", err)
	}
	if resp, _ := get(t, server.URL+"/uploads/.upload-123456"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for in-progress upload, got %d", resp.StatusCode)
	}

	if resp, _ := get(t, server.URL+"/uploads/"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for upload directory, got %d", resp.StatusCode)
	}

	if err := os.Mkdir(filepath.Join(uploads.Dir(), "nested"), 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if resp, _ := get(t, server.URL+"/uploads/nested"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for nested directory, got %d", resp.StatusCode)
	}
}
