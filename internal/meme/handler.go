package meme

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memebin/service/internal/response"
)

// maxUploadMemory bounds how much of a multipart body is held in memory;
// larger files spill to temp files.
const maxUploadMemory = 32 << 20

// Handler holds HTTP handlers for meme endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new meme Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MemeResponse is the API representation of a meme, including the public URL
// of its blob.
type MemeResponse struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	Description *string   `json:"description,omitempty"`
	ContentType string    `json:"contentType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	URL         string    `json:"url"`
}

// ListResponse is one page of memes plus pagination metadata.
type ListResponse struct {
	Items  []MemeResponse `json:"items"`
	Total  int64          `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

func (h *Handler) toResponse(m *Meme) MemeResponse {
	return MemeResponse{
		ID:          m.ID,
		Filename:    m.Filename,
		Description: m.Description,
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		URL:         h.svc.URL(m),
	}
}

// List godoc
//
//	@Summary		List memes
//	@Description	Returns one page of meme metadata, ordered and paginated.
//	@Tags			memes
//	@Produce		json
//	@Param			order_by	query	string	false	"Order column"	Enums(id, updated_at)
//	@Param			descending	query	bool	false	"Reverse the order"
//	@Param			offset		query	int		false	"Rows to skip"
//	@Param			limit		query	int		false	"Page size (max 100)"
//	@Success		200	{object}	response.Envelope{data=ListResponse}
//	@Failure		500	{object}	response.Envelope
//	@Router			/memes [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{OrderBy: q.Get("order_by")}
	params.Descending, _ = strconv.ParseBool(q.Get("descending"))
	params.Offset, _ = strconv.Atoi(q.Get("offset"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))

	memes, total, err := h.svc.List(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	params.normalize()
	items := make([]MemeResponse, 0, len(memes))
	for i := range memes {
		items = append(items, h.toResponse(&memes[i]))
	}
	response.OK(w, ListResponse{
		Items:  items,
		Total:  total,
		Offset: params.Offset,
		Limit:  params.Limit,
	})
}

// Create godoc
//
//	@Summary		Upload a meme
//	@Description	Stores the uploaded file in object storage and creates its metadata row.
//	@Tags			memes
//	@Accept			mpfd
//	@Produce		json
//	@Param			file		formData	file	true	"Media file (image or video)"
//	@Param			description	formData	string	false	"Free-text description"
//	@Success		201	{object}	response.Envelope{data=MemeResponse}
//	@Failure		400	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/memes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	m, err := h.svc.Upload(r.Context(), header.Filename, formDescription(r), &FileUpload{
		Filename: header.Filename,
		Reader:   file,
		Size:     header.Size,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, h.toResponse(m))
}

// Get godoc
//
//	@Summary		Get a meme
//	@Description	Returns meme metadata by id.
//	@Tags			memes
//	@Produce		json
//	@Param			id	path	int	true	"Meme id"
//	@Success		200	{object}	response.Envelope{data=MemeResponse}
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/memes/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	m, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, h.toResponse(m))
}

// Update godoc
//
//	@Summary		Update a meme
//	@Description	Replaces the meme's file and/or description. At least one must be provided.
//	@Tags			memes
//	@Accept			mpfd
//	@Produce		json
//	@Param			id			path		int		true	"Meme id"
//	@Param			file		formData	file	false	"Replacement media file"
//	@Param			description	formData	string	false	"New description"
//	@Success		200	{object}	response.Envelope{data=MemeResponse}
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/memes/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(w, "invalid multipart body")
		return
	}

	var upload *FileUpload
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		upload = &FileUpload{Filename: header.Filename, Reader: file, Size: header.Size}
	case errors.Is(err, http.ErrMissingFile):
		// file is optional on update
	default:
		response.BadRequest(w, "invalid file field")
		return
	}

	m, err := h.svc.Update(r.Context(), id, upload, formDescription(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, h.toResponse(m))
}

// Delete godoc
//
//	@Summary		Delete a meme
//	@Description	Removes the meme's blob and metadata row. Deletion is permanent.
//	@Tags			memes
//	@Param			id	path	int	true	"Meme id"
//	@Success		204
//	@Failure		400	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/memes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

// pathID parses the {id} path parameter, writing a 400 on malformed input.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid meme id")
		return 0, false
	}
	return id, true
}

// formDescription returns the description form value, or nil when the field
// was absent from the request. Absence and the empty string are distinct:
// omitting the field leaves the description untouched on update.
func formDescription(r *http.Request) *string {
	if r.MultipartForm == nil {
		return nil
	}
	vals, ok := r.MultipartForm.Value["description"]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var unsupported *UnsupportedFormatError
	var forbidden *ForbiddenFieldError
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "meme not found")
	case errors.Is(err, ErrNothingToUpdate):
		response.BadRequest(w, err.Error())
	case errors.As(err, &unsupported):
		response.BadRequest(w, unsupported.Error())
	case errors.As(err, &forbidden):
		response.BadRequest(w, forbidden.Error())
	default:
		log.Printf("meme handler: %v", err)
		response.InternalError(w)
	}
}
