package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"fleetsnap/internal/dataprocessing"
	"fleetsnap/internal/store"
	"fleetsnap/pkg/contracts/domain"
)

// SnapshotService ingests uploaded spreadsheet batches: each file is
// loaded, classified, normalized and persisted into the ticket's
// session database under its report-type tag.
type SnapshotService struct {
	storageDir string
	logger     *slog.Logger
}

// NewSnapshotService creates a snapshot service writing ticket
// databases into storageDir.
func NewSnapshotService(storageDir string, logger *slog.Logger) (*SnapshotService, error) {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotService{
		storageDir: storageDir,
		logger:     logger.With(slog.String("component", "snapshot_service")),
	}, nil
}

// UploadedFile is one file of a batch: the name the caller uploaded it
// under and the local path it was spooled to.
type UploadedFile struct {
	Name string
	Path string
}

// ProcessBatch ingests a batch of files into the ticket's snapshot.
// Failures are per file: a file that cannot be parsed or normalized is
// recorded and skipped, never aborting the rest of the batch. The only
// batch-level errors are storage ones.
func (s *SnapshotService) ProcessBatch(ctx context.Context, ticket string, files []UploadedFile) (domain.BatchResult, error) {
	session, err := store.OpenTicket(s.storageDir, ticket)
	if err != nil {
		return domain.BatchResult{}, err
	}
	defer session.Close()

	result := domain.BatchResult{Ticket: ticket}
	for _, file := range files {
		fileResult, err := s.processFile(ctx, session, file)
		if err != nil {
			s.logger.WarnContext(ctx, "file processing failed",
				slog.String("ticket", ticket),
				slog.String("filename", file.Name),
				slog.String("error", err.Error()),
			)
			failure := domain.FileFailure{Filename: file.Name, Error: err.Error()}
			if recordErr := session.RecordFailure(ctx, failure); recordErr != nil {
				return domain.BatchResult{}, recordErr
			}
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Files = append(result.Files, fileResult)
	}

	s.logger.InfoContext(ctx, "batch processed",
		slog.String("ticket", ticket),
		slog.Int("ok", len(result.Files)),
		slog.Int("failed", len(result.Failures)),
	)
	return result, nil
}

func (s *SnapshotService) processFile(ctx context.Context, session *store.Session, file UploadedFile) (domain.FileResult, error) {
	table, err := dataprocessing.LoadTable(file.Path)
	if err != nil {
		return domain.FileResult{}, err
	}

	tag := dataprocessing.DetectReportType(table, filepath.Base(file.Name))

	normalized, err := dataprocessing.Normalize(tag, table)
	if err != nil {
		return domain.FileResult{}, err
	}

	if err := session.SaveTable(ctx, string(tag), normalized); err != nil {
		return domain.FileResult{}, err
	}

	s.logger.InfoContext(ctx, "file processed",
		slog.String("filename", file.Name),
		slog.String("report_type", string(tag)),
		slog.Int("rows", normalized.NumRows()),
	)
	return domain.FileResult{
		Filename:   file.Name,
		ReportType: tag,
		Rows:       normalized.NumRows(),
	}, nil
}

// ListTables returns the report tables stored for a ticket.
func (s *SnapshotService) ListTables(ctx context.Context, ticket string) ([]string, error) {
	session, err := store.OpenTicket(s.storageDir, ticket)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return session.ListTables(ctx)
}

// LoadTable returns a stored table, truncated to limit rows when limit
// is positive.
func (s *SnapshotService) LoadTable(ctx context.Context, ticket, name string, limit int) (*dataprocessing.Table, error) {
	session, err := store.OpenTicket(s.storageDir, ticket)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	table, err := session.LoadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(table.Rows) {
		table.Rows = table.Rows[:limit]
	}
	return table, nil
}

// ListFailures returns the per-file failures recorded for a ticket.
func (s *SnapshotService) ListFailures(ctx context.Context, ticket string) ([]domain.FileFailure, error) {
	session, err := store.OpenTicket(s.storageDir, ticket)
	if err != nil {
		return nil, err
	}
	defer session.Close()
	return session.ListFailures(ctx)
}
