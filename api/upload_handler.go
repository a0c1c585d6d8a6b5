package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// multipart overhead on top of the largest allowed file
	maxUploadRequestSize = 11 << 20
	uploadMemory         = 8 << 20
)

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  storage.Uploader
	remover   storage.Remover
}

// newUploadHandler takes a nil remover when no media host is configured.
func newUploadHandler(uploader storage.Uploader, remover storage.Remover) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
		remover:   remover,
	}
}

// upload stores the multipart field "file" as the category named by "type".
// @Router /api/upload [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestSize)
		if err := r.ParseMultipartForm(uploadMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(storage.KindDocument.MaxSize()))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("upload", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteValidationError(w, "file", "No file uploaded")
			return
		}
		defer file.Close()

		kindName := r.FormValue("type")
		if kindName == "" {
			kindName = string(storage.KindProject)
		}
		kind, ok := storage.ParseKind(kindName)
		if !ok {
			h.responder.WriteValidationError(w, "type", "Upload type must be one of project, profile, document, resume")
			return
		}

		contentType := header.Header.Get("Content-Type")
		if err := kind.Validate(contentType, header.Size); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		object, err := h.uploader.Upload(r.Context(), storage.File{
			Kind:        kind,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Body:        file,
		})
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to upload file", err))
			return
		}

		metrics.IncrementUpload(string(kind), object.Local)
		h.logger.Info().
			Str("kind", string(kind)).
			Str("url", object.URL).
			Bool("local", object.Local).
			Msg("File uploaded")

		h.responder.WriteData(w, http.StatusOK, object)
	}
}

// deleteUpload removes a file from the media host.
// @Router /api/upload [delete]
func (h uploadHandler) deleteUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		publicID := r.URL.Query().Get("publicId")
		if publicID == "" {
			h.responder.WriteValidationError(w, "publicId", "No publicId provided")
			return
		}

		if h.remover == nil {
			h.responder.WriteError(w, errs.NewConfigError("Media storage not configured", "MEDIA_S3_BUCKET"))
			return
		}

		if err := h.remover.Delete(r.Context(), publicID); err != nil {
			if errors.Is(err, storage.ErrForeignObject) {
				h.responder.WriteValidationError(w, "publicId", "Unknown publicId")
				return
			}
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("Failed to delete file", err))
			return
		}

		h.logger.Info().Str("publicId", publicID).Msg("File deleted")
		h.responder.WriteMessage(w, http.StatusOK, "File deleted successfully", nil)
	}
}
