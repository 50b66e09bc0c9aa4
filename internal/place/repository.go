package place

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maruizc/arrienda-host/internal/api"
	"github.com/maruizc/arrienda-host/internal/models"
)

// ErrPhotoUpload marks a create/update whose listing write succeeded but
// whose photo batch did not. The listing is persisted; only the photo
// step needs retrying.
var ErrPhotoUpload = errors.New("photo upload failed")

type Repository struct {
	api      *api.Client
	uploader *Uploader
	logger   *slog.Logger
}

func NewRepository(client *api.Client, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		api:      client,
		uploader: NewUploader(client),
		logger:   logger.With("component", "place"),
	}
}

// ListForHost returns the host's listings in server order. A 2xx payload
// that is not an array is treated as an empty result; this is the one
// deliberate swallow-and-default boundary in the repository.
func (r *Repository) ListForHost(ctx context.Context, hostID int) ([]Listing, error) {
	body, err := r.api.Get(ctx, fmt.Sprintf("/lugares/arrendatario/%d", hostID))
	if err != nil {
		return nil, err
	}

	var wires []models.PlaceWire
	if err := json.Unmarshal(body, &wires); err != nil {
		r.logger.Warn("listings payload is not an array, treating as empty", "host_id", hostID)
		return []Listing{}, nil
	}

	listings := make([]Listing, 0, len(wires))
	for _, w := range wires {
		listings = append(listings, fromWire(w))
	}
	return listings, nil
}

// GetByID returns one hydrated listing. A 404 matches api.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int) (Listing, error) {
	body, err := r.api.Get(ctx, fmt.Sprintf("/lugares/%d", id))
	if err != nil {
		return Listing{}, err
	}

	var w models.PlaceWire
	if err := json.Unmarshal(body, &w); err != nil {
		return Listing{}, fmt.Errorf("decode listing %d: %w", id, err)
	}
	return fromWire(w), nil
}

// Create validates the draft, submits it, and uploads any local photos
// against the newly assigned id. A ValidationError is returned before any
// network traffic. When the photo step fails the created listing is still
// returned together with an error matching ErrPhotoUpload.
func (r *Repository) Create(ctx context.Context, draft Draft) (Listing, error) {
	if err := draft.check(); err != nil {
		return Listing{}, err
	}

	body, err := r.api.PostJSON(ctx, "/lugares", draft.wire())
	if err != nil {
		return Listing{}, err
	}

	var w models.PlaceWire
	if err := json.Unmarshal(body, &w); err != nil {
		return Listing{}, fmt.Errorf("decode created listing: %w", err)
	}
	created := fromWire(w)

	if err := r.SavePhotos(ctx, created.ID, draft.Photos); err != nil {
		return created, err
	}
	return created, nil
}

// Update validates the draft and submits a full replacement of the
// listing's fields. Field submission always completes before the photo
// step starts; the two are separate failure domains and are never rolled
// back jointly.
func (r *Repository) Update(ctx context.Context, id int, draft Draft) (Listing, error) {
	if err := draft.check(); err != nil {
		return Listing{}, err
	}

	body, err := r.api.PutJSON(ctx, fmt.Sprintf("/lugares/%d", id), draft.wire())
	if err != nil {
		return Listing{}, err
	}

	var w models.PlaceWire
	if err := json.Unmarshal(body, &w); err != nil {
		return Listing{}, fmt.Errorf("decode updated listing %d: %w", id, err)
	}
	updated := fromWire(w)

	if err := r.SavePhotos(ctx, id, draft.Photos); err != nil {
		return updated, err
	}
	return updated, nil
}

// SavePhotos reconciles a photo sequence against listingID. Remote-tagged
// references are already persisted and left untouched. Local references
// are deduplicated by file reference, first occurrence wins, and handed
// to the uploader as one batch. At-least-once: a partial failure leaves
// already-created remote photos in place and the caller retries only this
// step.
func (r *Repository) SavePhotos(ctx context.Context, listingID int, photos []PhotoRef) error {
	seen := make(map[string]bool)
	var pending []string
	for _, p := range photos {
		if p.Kind != Local || seen[p.FileRef] {
			continue
		}
		seen[p.FileRef] = true
		pending = append(pending, p.FileRef)
	}
	if len(pending) == 0 {
		return nil
	}

	r.logger.Debug("uploading photos", "listing_id", listingID, "count", len(pending))
	if err := r.uploader.Upload(ctx, listingID, pending); err != nil {
		return fmt.Errorf("%w: %w", ErrPhotoUpload, err)
	}
	return nil
}
