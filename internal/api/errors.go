package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/martomarzo/shutupandtakemythings/internal/auth"
	"github.com/martomarzo/shutupandtakemythings/internal/catalog"
	"github.com/martomarzo/shutupandtakemythings/internal/model"
	"github.com/martomarzo/shutupandtakemythings/internal/notify"
	"github.com/martomarzo/shutupandtakemythings/internal/store"
	"github.com/martomarzo/shutupandtakemythings/internal/upload"
)

// writeError maps a service error to its HTTP status. notFound is the
// message used when the error is store.ErrNotFound.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *model.ValidationError
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, auth.ErrUnauthenticated):
		jsonError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		jsonError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		jsonError(w, http.StatusForbidden, auth.ErrInvalidToken.Error())
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, notFound)
	case errors.Is(err, catalog.ErrConflict):
		jsonError(w, http.StatusConflict, catalog.ErrConflict.Error())
	case errors.Is(err, upload.ErrUnsupportedMediaType):
		jsonError(w, http.StatusBadRequest, upload.ErrUnsupportedMediaType.Error())
	case errors.Is(err, upload.ErrPayloadTooLarge), errors.As(err, &maxErr):
		jsonError(w, http.StatusBadRequest, upload.ErrPayloadTooLarge.Error())
	case errors.Is(err, notify.ErrNotConfigured):
		jsonError(w, http.StatusServiceUnavailable, notify.ErrNotConfigured.Error())
	case errors.Is(err, notify.ErrUpstream):
		slog.Warn("notification upstream failed", "error", err)
		jsonError(w, http.StatusBadGateway, notify.ErrUpstream.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal server error")
	}
}
