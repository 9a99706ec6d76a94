package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	commoncrypto "github.com/AlibekovAA/places-api/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
	"github.com/AlibekovAA/places-api/internal/common/logger"
	"github.com/AlibekovAA/places-api/internal/observability/metrics"
)

const FormField = "image"

var allowedMIME = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpeg",
}

type Image struct {
	Data      []byte
	MIME      string
	Extension string
}

// ImageStore persists image bytes under name and returns the reference kept
// on the owning record.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
	Backend() string
}

type Uploader struct {
	store   ImageStore
	ids     commoncrypto.IDGenerator
	maxSize int64
	log     *logger.Logger
}

func NewUploader(store ImageStore, ids commoncrypto.IDGenerator, maxSize int64, log *logger.Logger) *Uploader {
	return &Uploader{
		store:   store,
		ids:     ids,
		maxSize: maxSize,
		log:     log,
	}
}

// FromRequest reads the image part of an already parsed multipart form.
func (u *Uploader) FromRequest(r *http.Request) (Image, error) {
	file, _, err := r.FormFile(FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return Image{}, commonerrors.ErrImageRequired
		}
		return Image{}, commonerrors.ErrImageRequired.WithCause(err)
	}
	defer file.Close()

	return u.Read(file)
}

// Read enforces the size limit and sniffs the content type from the bytes,
// ignoring whatever the client declared.
func (u *Uploader) Read(src io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(src, u.maxSize+1))
	if err != nil {
		return Image{}, commonerrors.ErrImageRequired.WithCause(err)
	}
	if len(data) == 0 {
		return Image{}, commonerrors.ErrImageRequired
	}
	if int64(len(data)) > u.maxSize {
		return Image{}, commonerrors.ErrFileSizeExceeded.WithDetails(map[string]any{
			"max_bytes": u.maxSize,
		})
	}

	detected := mimetype.Detect(data)
	ext, ok := allowedMIME[detected.String()]
	if !ok {
		return Image{}, commonerrors.ErrInvalidMimeType.WithDetails(map[string]any{
			"mime": detected.String(),
		})
	}

	return Image{Data: data, MIME: detected.String(), Extension: ext}, nil
}

func (u *Uploader) Save(ctx context.Context, img Image) (string, error) {
	id, err := u.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("failed to generate image name: %w", err)
	}

	ref, err := u.store.Save(ctx, id+img.Extension, img.MIME, img.Data)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	metrics.ImagesStored.WithLabelValues(u.store.Backend()).Inc()
	u.log.WithFields(ctx, logger.Fields{
		"action":  "image_stored",
		"backend": u.store.Backend(),
		"ref":     ref,
		"size":    len(img.Data),
	}).Debug("image stored")
	return ref, nil
}

// Discard removes a stored image. Failures are logged only; callers use it
// on paths where the primary operation already finished or failed.
func (u *Uploader) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}

	if err := u.store.Delete(context.WithoutCancel(ctx), ref); err != nil {
		metrics.ImagesDeleted.WithLabelValues(u.store.Backend(), "error").Inc()
		u.log.WithFields(ctx, logger.Fields{
			"action": "image_delete_failed",
			"ref":    ref,
		}).Warnf("failed to delete image: %v", err)
		return
	}
	metrics.ImagesDeleted.WithLabelValues(u.store.Backend(), "ok").Inc()
}

// ParseMultipart parses the form keeping at most maxMemory bytes in memory.
func ParseMultipart(r *http.Request, maxMemory int64) error {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return commonerrors.ErrFileSizeExceeded.WithCause(err)
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return commonerrors.ErrFileSizeExceeded.WithCause(err)
		}
		return commonerrors.ErrValidation.WithCause(err)
	}
	return nil
}
