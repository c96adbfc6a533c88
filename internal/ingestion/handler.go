package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/internal/sourcefiles"
	"github.com/JaimeStill/tally/pkg/handlers"
	"github.com/JaimeStill/tally/pkg/routes"
)

// MaxBatchSize bounds the number of files a batch request may name.
const MaxBatchSize = 100

var errInvalidBatch = errors.New("invalid batch request")

// Handler provides HTTP endpoints that register and ingest uploads.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// UploadResponse is returned by Upload. Result is nil when ingestion was
// not requested.
type UploadResponse struct {
	File   *sourcefiles.SourceFile `json:"file"`
	Result *Result                 `json:"result,omitempty"`
}

// UploadFailure is returned when a file was registered but its ingestion
// run failed. The file remains unprocessed and can be ingested again.
type UploadFailure struct {
	handlers.ErrorResponse
	File *sourcefiles.SourceFile `json:"file"`
}

// BatchRequest names the source files to ingest.
type BatchRequest struct {
	FileIDs []uuid.UUID `json:"file_ids"`
}

// BatchResponse carries one item per requested file, in request order.
type BatchResponse struct {
	Items []BatchItem `json:"items"`
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "ingestion"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route groups for upload and ingestion endpoints.
func (h *Handler) Routes() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/files",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "", Handler: h.Upload},
				{Method: "POST", Pattern: "/{id}/ingest", Handler: h.Ingest},
			},
		},
		{
			Prefix: "/ingest",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "", Handler: h.Batch},
			},
		},
	}
}

// Upload registers a multipart file upload and, unless the ingest form value
// is false, runs ingestion on it in the same request.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, sourcefiles.ErrFileTooLarge)
		return
	}

	ingest := true
	if v := r.FormValue("ingest"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, sourcefiles.ErrInvalidFile)
			return
		}
		ingest = b
	}

	var uploadedBy *uuid.UUID
	if v := r.FormValue("uploaded_by"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, sourcefiles.ErrInvalidFile)
			return
		}
		uploadedBy = &id
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, sourcefiles.ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, sourcefiles.ErrInvalidFile)
		return
	}

	cmd := sourcefiles.CreateCommand{
		Data:        data,
		Filename:    header.Filename,
		ContentType: DetectContentType(header.Header.Get("Content-Type"), header.Filename, data),
		UploadedBy:  uploadedBy,
	}

	sf, err := h.sys.Upload(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !ingest {
		handlers.RespondJSON(w, http.StatusCreated, UploadResponse{File: sf})
		return
	}

	result, err := h.sys.Ingest(r.Context(), sf.ID)
	if err != nil {
		status := MapHTTPStatus(err)
		h.logger.Warn("uploaded file not ingested", "file", sf.ID, "status", status, "error", err)

		body := UploadFailure{
			ErrorResponse: handlers.ErrorResponse{Error: err.Error()},
			File:          sf,
		}
		var d handlers.Detailer
		if errors.As(err, &d) {
			body.Details = d.Details()
		}
		handlers.RespondJSON(w, status, body)
		return
	}

	sf.Processed = true
	sf.RecordsCreated = result.RecordsCreated

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{File: sf, Result: result})
}

// Ingest runs ingestion for a previously registered source file.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, sourcefiles.ErrInvalidFile)
		return
	}

	result, err := h.sys.Ingest(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Batch ingests several registered source files concurrently. Failures are
// reported per file; the response status is 200 whenever the request is
// well formed.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidBatch)
		return
	}

	if len(req.FileIDs) == 0 || len(req.FileIDs) > MaxBatchSize {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidBatch)
		return
	}

	items := h.sys.IngestBatch(r.Context(), req.FileIDs)
	handlers.RespondJSON(w, http.StatusOK, BatchResponse{Items: items})
}

// DetectContentType picks the content type recorded for an upload: the
// declared type when it is specific, then the extension's registered type,
// then a sniff of the payload.
func DetectContentType(header, filename string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
