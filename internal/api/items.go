package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/martomarzo/shutupandtakemythings/internal/catalog"
	"github.com/martomarzo/shutupandtakemythings/internal/model"
	"github.com/martomarzo/shutupandtakemythings/internal/upload"
)

// multipartOverhead is allowed on top of the image size for the other form
// fields and part headers.
const multipartOverhead = 1 << 20

const itemNotFound = "item not found"

// ItemsHandler handles the public and admin item endpoints.
type ItemsHandler struct {
	Catalog *catalog.Service
}

type createItemResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ItemFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}

	items, err := h.Catalog.ListItems(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.Catalog.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// ListAll handles GET /api/admin/items.
func (h *ItemsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListAllItems(r.Context())
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/admin/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, img, cleanup, err := h.readItemRequest(w, r)
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	defer cleanup()

	id, err := h.Catalog.CreateItem(r.Context(), form, img)
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}

	jsonResponse(w, http.StatusCreated, createItemResponse{ID: id, Message: "item created successfully"})
}

// Update handles PUT /api/admin/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	form, img, cleanup, err := h.readItemRequest(w, r)
	if err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	defer cleanup()

	if err := h.Catalog.UpdateItem(r.Context(), id, form, img); err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	jsonMessage(w, "item updated successfully")
}

// UpdateStatus handles PATCH /api/admin/items/{id}/status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Catalog.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	jsonMessage(w, "status updated successfully")
}

// Delete handles DELETE /api/admin/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.Catalog.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err, itemNotFound)
		return
	}
	jsonMessage(w, "item deleted successfully")
}

// itemID parses the {id} path value, writing a 400 when it is malformed.
func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

// readItemRequest extracts item fields and the optional image from a
// multipart, urlencoded or JSON body. The returned cleanup releases any
// temporary files the multipart parser created.
func (h *ItemsHandler) readItemRequest(w http.ResponseWriter, r *http.Request) (model.ItemForm, *catalog.Image, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.Catalog.Uploads.MaxSize()+multipartOverhead)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		form, err := decodeItemJSON(r)
		return form, nil, noop, err
	}

	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return model.ItemForm{}, nil, noop, requestError(err)
		}
		return itemFormFromValues(r.PostFormValue), nil, noop, nil
	}

	// Files are spooled to disk by the parser rather than held in memory.
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		return model.ItemForm{}, nil, noop, requestError(err)
	}
	cleanup := func() { r.MultipartForm.RemoveAll() }

	form := itemFormFromValues(r.PostFormValue)

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return model.ItemForm{}, nil, noop, requestError(err)
	}

	img := &catalog.Image{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}
	return form, img, func() {
		file.Close()
		cleanup()
	}, nil
}

func itemFormFromValues(get func(string) string) model.ItemForm {
	return model.ItemForm{
		Name:        get("name"),
		Price:       get("price"),
		Category:    get("category"),
		Description: get("description"),
		Height:      get("height"),
		Length:      get("length"),
		Depth:       get("depth"),
		Color:       get("color"),
		Material:    get("material"),
		Condition:   get("condition"),
		Notes:       get("notes"),
		Status:      get("status"),
	}
}

// decodeItemJSON accepts numbers or strings for every field.
func decodeItemJSON(r *http.Request) (model.ItemForm, error) {
	defer r.Body.Close()

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return model.ItemForm{}, upload.ErrPayloadTooLarge
		}
		return model.ItemForm{}, model.NewValidationError("invalid request body")
	}

	return itemFormFromValues(func(key string) string {
		switch v := raw[key].(type) {
		case nil:
			return ""
		case string:
			return v
		case json.Number:
			return v.String()
		default:
			return fmt.Sprint(v)
		}
	}), nil
}

// requestError keeps body size violations distinguishable and reports any
// other parse failure as a bad request.
func requestError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
		return upload.ErrPayloadTooLarge
	}
	return model.NewValidationError("invalid form data")
}
