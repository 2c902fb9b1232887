package api

import (
	"net/http"

	"github.com/martomarzo/shutupandtakemythings/internal/notify"
)

// NotifyHandler exposes the public contact settings and forwards buyer messages.
type NotifyHandler struct {
	Notifier *notify.Notifier
}

type sendNotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Config handles GET /api/config.
func (h *NotifyHandler) Config(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Notifier.PublicConfig())
}

// Send handles POST /api/send-notification.
func (h *NotifyHandler) Send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var req sendNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Notifier.Send(r.Context(), req.Title, req.Message); err != nil {
		writeError(w, r, err, "")
		return
	}
	jsonMessage(w, "notification sent successfully")
}
