package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "fleetsnap/internal/errors"
	"fleetsnap/internal/exporter"
	"fleetsnap/internal/services"
	"fleetsnap/pkg/contracts/domain"
)

// SnapshotHandler serves the snapshot lifecycle: upload, inspection and
// finalization into a report document.
type SnapshotHandler struct {
	snapshots      *services.SnapshotService
	reports        *services.ReportService
	maxUploadBytes int64
	validate       *validator.Validate
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewSnapshotHandler creates a snapshot handler.
func NewSnapshotHandler(
	snapshots *services.SnapshotService,
	reports *services.ReportService,
	maxUploadBytes int64,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *SnapshotHandler {
	return &SnapshotHandler{
		snapshots:      snapshots,
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
		logger:         logger.With(slog.String("component", "snapshot_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the snapshot routes.
func (h *SnapshotHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateSnapshot)
	r.Route("/{ticket}", func(r chi.Router) {
		r.Use(h.TicketCtx)
		r.Get("/tables", h.ListTables)
		r.Get("/tables/{name}", h.GetTable)
		r.Get("/failures", h.ListFailures)
		r.Post("/finalize", h.Finalize)
	})
	return r
}

// TicketCtx validates the ticket URL parameter.
func (h *SnapshotHandler) TicketCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticket := chi.URLParam(r, "ticket")
		if _, err := uuid.Parse(ticket); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("ticket", "Ticket must be a UUID"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSnapshot accepts a multipart batch of spreadsheet files,
// creates a ticket and processes the batch into its snapshot database.
func (h *SnapshotHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.ErrValidation("body", "Request must be multipart form data within the size limit"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("files", "At least one file is required"))
		return
	}

	spoolDir, err := os.MkdirTemp("", "fleetsnap-upload-*")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("create upload spool", err))
		return
	}
	defer os.RemoveAll(spoolDir)

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	for i, fh := range fileHeaders {
		path := filepath.Join(spoolDir, fmt.Sprintf("%d%s", i, filepath.Ext(fh.Filename)))
		if err := spoolFile(fh, path); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewStorageError("spool uploaded file", err))
			return
		}
		files = append(files, services.UploadedFile{Name: fh.Filename, Path: path})
	}

	ticket := uuid.New().String()
	result, err := h.snapshots.ProcessBatch(r.Context(), ticket, files)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, result)
}

func spoolFile(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// ListTables returns the report tables stored for a ticket.
func (h *SnapshotHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	ticket := chi.URLParam(r, "ticket")
	tables, err := h.snapshots.ListTables(r.Context(), ticket)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if tables == nil {
		tables = []string{}
	}
	render.JSON(w, r, map[string]any{"ticket": ticket, "tables": tables})
}

// GetTable returns a stored table's columns and rows, optionally
// truncated with ?limit=.
func (h *SnapshotHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	ticket := chi.URLParam(r, "ticket")
	name := chi.URLParam(r, "name")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "Limit must be a non-negative integer"))
			return
		}
		limit = v
	}

	table, err := h.snapshots.LoadTable(r.Context(), ticket, name, limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		if err := exporter.WriteCSV(w, table, exporter.WriteOptions{BOMPrefix: true}); err != nil {
			h.logger.ErrorContext(r.Context(), "csv export failed", slog.String("error", err.Error()))
		}
		return
	}

	render.JSON(w, r, map[string]any{
		"ticket":  ticket,
		"name":    name,
		"columns": table.Columns,
		"rows":    table.Rows,
	})
}

// ListFailures returns the per-file failures recorded for a ticket.
func (h *SnapshotHandler) ListFailures(w http.ResponseWriter, r *http.Request) {
	ticket := chi.URLParam(r, "ticket")
	failures, err := h.snapshots.ListFailures(r.Context(), ticket)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if failures == nil {
		failures = []domain.FileFailure{}
	}
	render.JSON(w, r, map[string]any{"ticket": ticket, "failures": failures})
}

// FinalizeRequest is the body of POST /{ticket}/finalize.
type FinalizeRequest struct {
	// TrendEnd is the reference date (YYYY-MM-DD). Empty means today:
	// the clock is consulted here at the boundary, never in the core.
	TrendEnd string `json:"trend_end" validate:"omitempty,datetime=2006-01-02"`
	// Filters are equality matches applied to the HOS table.
	Filters map[string]string `json:"filters" validate:"omitempty,dive,keys,required,endkeys,required"`
}

// Finalize builds the report document for a ticket.
func (h *SnapshotHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	ticket := chi.URLParam(r, "ticket")

	var req FinalizeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && err != io.EOF {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("body", "Request body must be valid JSON"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("trend_end", "trend_end must be a YYYY-MM-DD date"))
		return
	}

	trendEnd := time.Now().UTC()
	if req.TrendEnd != "" {
		parsed, err := time.Parse("2006-01-02", req.TrendEnd)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("trend_end", "trend_end must be a YYYY-MM-DD date"))
			return
		}
		trendEnd = parsed
	}

	doc, err := h.reports.BuildReport(r.Context(), ticket, trendEnd, req.Filters)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, doc)
}
