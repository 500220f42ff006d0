package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/penwellapp/penwell-server/internal/errors"
	"github.com/penwellapp/penwell-server/internal/http/response"
	"github.com/penwellapp/penwell-server/internal/media"
)

// coverFormField is the multipart field holding the image.
const coverFormField = "cover"

// Multipart framing allowance on top of the image size cap.
const multipartOverhead = 64 << 10

func (s *Server) registerCoverRoutes() {
	// Multipart uploads and file serving go through chi directly.
	s.router.Post("/api/v1/posts/{id}/cover", s.handleUploadPostCover)
	s.router.Get(media.URLPrefix+"{name}", s.handleServeUpload)
}

// handleUploadPostCover stores a cover image for a post.
// POST /api/v1/posts/{id}/cover (multipart field "cover").
func (s *Server) handleUploadPostCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, err := s.actor(ctx, r.Header.Get("Authorization"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || postID <= 0 {
		response.HandleError(w, domainerrors.InvalidArgument("post id must be a positive integer"), s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.covers.MaxBytes()+multipartOverhead)
	if err := r.ParseMultipartForm(s.covers.MaxBytes()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, domainerrors.InvalidArgumentf("%s (limit %d bytes)", media.ErrTooLarge, s.covers.MaxBytes()), s.logger)
			return
		}
		response.HandleError(w, domainerrors.InvalidArgument("request must be multipart/form-data"), s.logger)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(coverFormField)
	if err != nil {
		response.HandleError(w, domainerrors.InvalidArgument("no file uploaded, use the 'cover' field"), s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.covers.MaxBytes()+1))
	if err != nil {
		s.logger.Error("failed to read uploaded cover", "error", err, "post_id", postID)
		response.HandleError(w, err, s.logger)
		return
	}

	post, err := s.services.Posts.SetCover(ctx, actor, postID, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Debug("cover upload accepted", "post_id", postID, "filename", header.Filename, "size", len(data))
	response.Success(w, post, s.logger)
}

// handleServeUpload serves a stored cover file.
// GET /uploads/{name}.
func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.covers.Exists(media.URLPrefix + name) {
		response.NotFound(w, "file not found", s.logger)
		return
	}

	// Names are random and never reused, so a file never changes.
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, filepath.Join(s.covers.Dir(), name))
}
