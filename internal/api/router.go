package api

import (
	"net/http"

	"github.com/martomarzo/shutupandtakemythings/internal/auth"
	"github.com/martomarzo/shutupandtakemythings/internal/catalog"
	"github.com/martomarzo/shutupandtakemythings/internal/notify"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(authSvc *auth.Service, items *catalog.Service, notifier *notify.Notifier) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Auth: authSvc}
	itemsHandler := &ItemsHandler{Catalog: items}
	notifyHandler := &NotifyHandler{Notifier: notifier}

	authMW := AuthMiddleware(authSvc)

	// Public.
	mux.HandleFunc("GET /api/config", notifyHandler.Config)
	mux.HandleFunc("POST /api/send-notification", notifyHandler.Send)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)

	// Authenticated.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("POST /api/admin/change-password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/admin/items", authMW(http.HandlerFunc(itemsHandler.ListAll)))
	mux.Handle("POST /api/admin/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/admin/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("PATCH /api/admin/items/{id}/status", authMW(http.HandlerFunc(itemsHandler.UpdateStatus)))
	mux.Handle("DELETE /api/admin/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "endpoint not found")
	})

	return mux
}
