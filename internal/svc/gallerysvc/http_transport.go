package gallerysvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/mkrupp/homegallery/internal/domain"
	"github.com/mkrupp/homegallery/internal/infra/logging"
	http_ "github.com/mkrupp/homegallery/internal/infra/transport/http"
	"github.com/mkrupp/homegallery/internal/store"
)

// ErrBadRequest is returned when a request misses required parameters.
var ErrBadRequest = errors.New("bad request")

// HTTPTransportConfig contains configuration parameters for the HTTP
// transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// MaxUploadMemory is the in-memory buffer size for multipart uploads.
	MaxUploadMemory int64 `env:"MAX_UPLOAD_MEMORY" default:"33554432"`
}

// HTTPTransport exposes the gallery service over HTTP.
type HTTPTransport struct {
	gallerySvc GalleryService
	log        logging.Logger
	cfg        HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport for the given service.
func NewHTTPTransport(gallerySvc GalleryService, cfg HTTPTransportConfig) *HTTPTransport {
	return &HTTPTransport{
		gallerySvc: gallerySvc,
		log:        logging.GetLogger("svc.gallerysvc.http_transport"),
		cfg:        cfg,
	}
}

// ServeHTTP implements http.Handler and sets up the gallery routes.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", ht.wrap("user created", ht.handleCreateUser))
	mux.HandleFunc("GET /users/{id}", ht.wrap("user fetched", ht.handleGetUser))
	mux.HandleFunc("POST /users/{id}/userpic", ht.wrap("userpic uploaded", ht.handleUploadUserpic))
	mux.HandleFunc("DELETE /users/{id}/userpic", ht.wrap("userpic deleted", ht.handleDeleteUserpic))
	mux.HandleFunc("GET /users/{id}/favorites", ht.wrap("favorites listed", ht.handleListFavorites))

	mux.HandleFunc("POST /albums", ht.wrap("album created", ht.handleCreateAlbum))
	mux.HandleFunc("GET /albums", ht.wrap("albums listed", ht.handleListAlbums))
	mux.HandleFunc("GET /albums/{id}", ht.wrap("album fetched", ht.handleGetAlbum))
	mux.HandleFunc("PUT /albums/{id}", ht.wrap("album updated", ht.handleUpdateAlbum))
	mux.HandleFunc("DELETE /albums/{id}", ht.wrap("album deleted", ht.handleDeleteAlbum))

	mux.HandleFunc("POST /albums/{id}/mediafiles", ht.wrap("mediafile uploaded", ht.handleUploadMediafile))
	mux.HandleFunc("GET /mediafiles", ht.wrap("mediafiles listed", ht.handleListMediafiles))
	mux.HandleFunc("GET /mediafiles/{id}", ht.wrap("mediafile fetched", ht.handleGetMediafile))
	mux.HandleFunc("GET /mediafiles/{id}/download", ht.wrap("mediafile downloaded", ht.handleDownloadMediafile))
	mux.HandleFunc("GET /mediafiles/{id}/thumbnail", ht.wrap("thumbnail downloaded", ht.handleDownloadThumbnail))
	mux.HandleFunc("PUT /mediafiles/{id}", ht.wrap("mediafile updated", ht.handleUpdateMediafile))
	mux.HandleFunc("DELETE /mediafiles/{id}", ht.wrap("mediafile deleted", ht.handleDeleteMediafile))

	mux.HandleFunc("POST /mediafiles/{id}/comments", ht.wrap("comment added", ht.handleAddComment))
	mux.HandleFunc("GET /mediafiles/{id}/comments", ht.wrap("comments listed", ht.handleListComments))
	mux.HandleFunc("GET /comments/{id}", ht.wrap("comment fetched", ht.handleGetComment))
	mux.HandleFunc("PUT /comments/{id}", ht.wrap("comment updated", ht.handleUpdateComment))
	mux.HandleFunc("DELETE /comments/{id}", ht.wrap("comment deleted", ht.handleDeleteComment))

	mux.HandleFunc("POST /mediafiles/{id}/favorite", ht.wrap("favorite added", ht.handleAddFavorite))
	mux.HandleFunc("DELETE /mediafiles/{id}/favorite", ht.wrap("favorite removed", ht.handleRemoveFavorite))

	mux.ServeHTTP(w, r)
}

// wrap adapts an error-returning handler to http.HandlerFunc with outcome
// logging, the way every transport in this codebase reports its requests.
func (ht *HTTPTransport) wrap(msg string, handler func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

		if err := handler(w, r); err != nil {
			log.ErrorContext(r.Context(), msg+" failed", "error", err)

			return
		}

		log.DebugContext(r.Context(), msg)
	}
}

// fail writes the mapped status code and returns the error for logging.
func fail(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValueExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrValueLocked):
		status = http.StatusLocked
	case errors.Is(err, domain.ErrValueInvalid), errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrMediaTypeNotSupported):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrMediaTooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	http.Error(w, http.StatusText(status), status)

	return err
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", ErrBadRequest, r.PathValue("id"))
	}

	return id, nil
}

func formID(r *http.Request, field string) (int64, error) {
	id, err := strconv.ParseInt(r.FormValue(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrBadRequest, field, r.FormValue(field))
	}

	return id, nil
}

func (ht *HTTPTransport) handleCreateUser(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	login := r.FormValue("user_login")
	if login == "" {
		return fail(w, fmt.Errorf("%w: no user_login", ErrBadRequest))
	}

	u, err := ht.gallerySvc.CreateUser(r.Context(), login,
		r.FormValue("first_name"), r.FormValue("last_name"))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, u)
}

func (ht *HTTPTransport) handleGetUser(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	u, err := ht.gallerySvc.GetUser(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, u)
}

func (ht *HTTPTransport) handleUploadUserpic(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	data, _, err := ht.formFile(r, "file")
	if err != nil {
		return fail(w, err)
	}

	u, err := ht.gallerySvc.UploadUserpic(r.Context(), id, data)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, u)
}

func (ht *HTTPTransport) handleDeleteUserpic(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	u, err := ht.gallerySvc.DeleteUserpic(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, u)
}

func (ht *HTTPTransport) handleListFavorites(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	ids, err := ht.gallerySvc.ListFavorites(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, ids)
}

func (ht *HTTPTransport) handleCreateAlbum(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	userID, err := formID(r, "user_id")
	if err != nil {
		return fail(w, err)
	}

	name := r.FormValue("album_name")
	if name == "" {
		return fail(w, fmt.Errorf("%w: no album_name", ErrBadRequest))
	}

	a, err := ht.gallerySvc.CreateAlbum(r.Context(), userID,
		r.FormValue("is_locked") == "true", name, r.FormValue("album_description"))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, a)
}

func (ht *HTTPTransport) handleListAlbums(w http.ResponseWriter, r *http.Request) error {
	albums, err := ht.gallerySvc.ListAlbums(r.Context(), listOptions(r))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, albums)
}

func (ht *HTTPTransport) handleGetAlbum(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	a, err := ht.gallerySvc.GetAlbum(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, a)
}

func (ht *HTTPTransport) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	a, err := ht.gallerySvc.UpdateAlbum(r.Context(), id,
		r.FormValue("is_locked") == "true",
		r.FormValue("album_name"), r.FormValue("album_description"))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, a)
}

func (ht *HTTPTransport) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := ht.gallerySvc.DeleteAlbum(r.Context(), id); err != nil {
		return fail(w, err)
	}

	return writeJSON(w, struct{}{})
}

func (ht *HTTPTransport) handleUploadMediafile(w http.ResponseWriter, r *http.Request) error {
	albumID, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseMultipartForm(ht.cfg.MaxUploadMemory); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	userID, err := formID(r, "user_id")
	if err != nil {
		return fail(w, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return fail(w, fmt.Errorf("%w: no file", ErrBadRequest))
	}
	defer file.Close()

	m, err := ht.gallerySvc.UploadMediafile(r.Context(), userID, albumID,
		header.Filename, file, r.FormValue("mediafile_description"))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, m)
}

func (ht *HTTPTransport) handleListMediafiles(w http.ResponseWriter, r *http.Request) error {
	var filters []store.Filter
	if albumID := r.URL.Query().Get("album_id"); albumID != "" {
		filters = append(filters, store.Where("album_id", store.OpEq, albumID))
	}

	mediafiles, err := ht.gallerySvc.ListMediafiles(r.Context(), listOptions(r), filters...)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, mediafiles)
}

func (ht *HTTPTransport) handleGetMediafile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	m, err := ht.gallerySvc.GetMediafile(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, m)
}

func (ht *HTTPTransport) handleDownloadMediafile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	m, data, err := ht.gallerySvc.DownloadMediafile(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	w.Header().Set("Content-Type", m.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", m.OriginalFilename))

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

func (ht *HTTPTransport) handleDownloadThumbnail(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	_, data, err := ht.gallerySvc.DownloadThumbnail(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	w.Header().Set("Content-Type", "image/jpeg")

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

func (ht *HTTPTransport) handleUpdateMediafile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	albumID, err := formID(r, "album_id")
	if err != nil {
		return fail(w, err)
	}

	m, err := ht.gallerySvc.UpdateMediafile(r.Context(), id, albumID,
		r.FormValue("original_filename"), r.FormValue("mediafile_description"))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, m)
}

func (ht *HTTPTransport) handleDeleteMediafile(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := ht.gallerySvc.DeleteMediafile(r.Context(), id); err != nil {
		return fail(w, err)
	}

	return writeJSON(w, struct{}{})
}

func (ht *HTTPTransport) handleAddComment(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	userID, err := formID(r, "user_id")
	if err != nil {
		return fail(w, err)
	}

	content := r.FormValue("comment_content")
	if content == "" {
		return fail(w, fmt.Errorf("%w: no comment_content", ErrBadRequest))
	}

	c, err := ht.gallerySvc.AddComment(r.Context(), userID, id, content)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, c)
}

func (ht *HTTPTransport) handleListComments(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	comments, err := ht.gallerySvc.ListComments(r.Context(), id, listOptions(r))
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, comments)
}

func (ht *HTTPTransport) handleGetComment(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	c, err := ht.gallerySvc.GetComment(r.Context(), id)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, c)
}

func (ht *HTTPTransport) handleUpdateComment(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	content := r.FormValue("comment_content")
	if content == "" {
		return fail(w, fmt.Errorf("%w: no comment_content", ErrBadRequest))
	}

	c, err := ht.gallerySvc.UpdateComment(r.Context(), id, content)
	if err != nil {
		return fail(w, err)
	}

	return writeJSON(w, c)
}

func (ht *HTTPTransport) handleDeleteComment(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := ht.gallerySvc.DeleteComment(r.Context(), id); err != nil {
		return fail(w, err)
	}

	return writeJSON(w, struct{}{})
}

func (ht *HTTPTransport) handleAddFavorite(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	userID, err := formID(r, "user_id")
	if err != nil {
		return fail(w, err)
	}

	if err := ht.gallerySvc.AddFavorite(r.Context(), userID, id); err != nil {
		return fail(w, err)
	}

	return writeJSON(w, struct{}{})
}

func (ht *HTTPTransport) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return fail(w, err)
	}

	if err := r.ParseForm(); err != nil {
		return fail(w, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	userID, err := formID(r, "user_id")
	if err != nil {
		return fail(w, err)
	}

	if err := ht.gallerySvc.RemoveFavorite(r.Context(), userID, id); err != nil {
		return fail(w, err)
	}

	return writeJSON(w, struct{}{})
}

// formFile reads one uploaded file fully into memory.
func (ht *HTTPTransport) formFile(r *http.Request, field string) ([]byte, string, error) {
	if err := r.ParseMultipartForm(ht.cfg.MaxUploadMemory); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("%w: no %s", ErrBadRequest, field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", field, err)
	}

	return data, header.Filename, nil
}

// listOptions maps common query parameters onto ListOptions.
func listOptions(r *http.Request) store.ListOptions {
	query := r.URL.Query()

	opts := store.ListOptions{
		OrderBy: query.Get("order_by"),
	}

	if query.Get("order") == "desc" {
		opts.Order = store.Desc
	} else {
		opts.Order = store.Asc
	}

	if offset, err := strconv.ParseInt(query.Get("offset"), 10, 64); err == nil {
		opts.Offset = offset
	}

	if limit, err := strconv.ParseInt(query.Get("limit"), 10, 64); err == nil {
		opts.Limit = limit
	}

	return opts
}
