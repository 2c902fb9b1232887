package catalog

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/martomarzo/shutupandtakemythings/internal/model"
	"github.com/martomarzo/shutupandtakemythings/internal/store"
	"github.com/martomarzo/shutupandtakemythings/internal/upload"
)

var (
	// ErrNotFound is returned when an item does not exist.
	ErrNotFound = store.ErrNotFound

	// ErrConflict is returned when an item's image keeps changing underneath
	// an update.
	ErrConflict = errors.New("item was modified concurrently, try again")
)

const imageSwapAttempts = 3

// Image is an uploaded file accompanying an item write.
type Image struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Service manages the item lifecycle and keeps stored images in step with
// item rows.
type Service struct {
	DB      *sql.DB
	Uploads *upload.Store

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// ListItems returns items matching the filter, newest first.
func (s *Service) ListItems(ctx context.Context, filter model.ItemFilter) ([]model.Item, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)

	items, err := store.ListItems(ctx, s.DB, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		decorate(&items[i])
	}
	return items, nil
}

// ListAllItems returns every item, newest first.
func (s *Service) ListAllItems(ctx context.Context) ([]model.Item, error) {
	return s.ListItems(ctx, model.ItemFilter{})
}

// GetItem returns a single item.
func (s *Service) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	decorate(item)
	return item, nil
}

// CreateItem validates the form, stores the optional image and inserts the
// item. New items always start out available.
func (s *Service) CreateItem(ctx context.Context, form model.ItemForm, img *Image) (int64, error) {
	form.Status = ""
	fields, err := form.Parse()
	if err != nil {
		return 0, err
	}

	var ref string
	if img != nil {
		if ref, err = s.Uploads.Accept(img.Reader, img.Filename, img.ContentType); err != nil {
			return 0, err
		}
	}

	id, err := store.CreateItem(ctx, s.DB, fields, ref, s.now())
	if err != nil {
		s.discard(ref)
		return 0, err
	}

	slog.Info("item created", "id", id, "name", fields.Name, "image", ref != "")
	return id, nil
}

// UpdateItem replaces all editable fields of an item. A status left empty
// resets to available. When a new image is supplied the previous file is
// removed only after the row points at the new one.
func (s *Service) UpdateItem(ctx context.Context, id int64, form model.ItemForm, img *Image) error {
	fields, err := form.Parse()
	if err != nil {
		return err
	}

	if img == nil {
		if err := store.UpdateItem(ctx, s.DB, id, fields, s.now()); err != nil {
			return err
		}
		slog.Info("item updated", "id", id, "status", fields.Status, "image_replaced", false)
		return nil
	}

	current, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return err
	}

	newRef, err := s.Uploads.Accept(img.Reader, img.Filename, img.ContentType)
	if err != nil {
		return err
	}

	oldRef, err := s.swapImage(ctx, id, fields, current.ImagePath, newRef)
	if err != nil {
		s.discard(newRef)
		return err
	}
	s.discard(oldRef)

	slog.Info("item updated", "id", id, "status", fields.Status, "image_replaced", true)
	return nil
}

// swapImage points the item at newRef, returning the file it replaced. The
// write only applies while the row still holds the image last read, so a
// concurrent replacement is picked up and retried instead of overwritten.
func (s *Service) swapImage(ctx context.Context, id int64, fields model.ItemFields, oldRef, newRef string) (string, error) {
	for attempt := 1; ; attempt++ {
		err := store.UpdateItemWithImage(ctx, s.DB, id, fields, oldRef, newRef, s.now())
		if !errors.Is(err, store.ErrNotFound) {
			return oldRef, err
		}

		latest, err := store.GetItem(ctx, s.DB, id)
		if err != nil {
			return "", err
		}
		if attempt == imageSwapAttempts {
			return "", ErrConflict
		}
		slog.Debug("item image changed during update, retrying", "id", id, "image", latest.ImagePath)
		oldRef = latest.ImagePath
	}
}

// UpdateStatus marks an item available or sold.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !model.ValidItemStatus(status) {
		return model.NewValidationError(`status must be either "available" or "sold"`)
	}
	if err := store.UpdateItemStatus(ctx, s.DB, id, status, s.now()); err != nil {
		return err
	}
	slog.Info("item status changed", "id", id, "status", status)
	return nil
}

// DeleteItem removes the item row and then its image file.
func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	current, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return err
	}

	if err := store.DeleteItem(ctx, s.DB, id); err != nil {
		return err
	}
	s.discard(current.ImagePath)

	slog.Info("item deleted", "id", id)
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// discard deletes a stored file. Failures leave an orphan on disk, which is
// logged rather than surfaced because the row change already happened.
func (s *Service) discard(ref string) {
	if ref == "" {
		return
	}
	if err := s.Uploads.Delete(ref); err != nil {
		slog.Warn("failed to delete image", "file", ref, "error", err)
	}
}

// decorate derives the public image URL from the stored file name.
func decorate(item *model.Item) {
	item.ImageURL = nil
	if item.ImagePath != "" {
		u := upload.URL(item.ImagePath)
		item.ImageURL = &u
	}
}
