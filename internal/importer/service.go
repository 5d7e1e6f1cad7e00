package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trading-journal-go/internal/models"
	"trading-journal-go/internal/store"
)

// csvFormatLabel is recorded on each import job's metadata.
const csvFormatLabel = "ebinex-v1"

// Notifier delivers import lifecycle events to an external collaborator.
// Delivery is best-effort and must never fail the import.
type Notifier interface {
	NotifyImportFinished(ctx context.Context, job *models.ImportJob)
}

// Service orchestrates the import pipeline: header validation, row
// parsing, deduplication, bulk commit and import-job bookkeeping. It is
// the only component that mutates an import job's status.
type Service struct {
	logger   *zap.Logger
	trades   *store.TradeRepository
	jobs     *store.JobRepository
	notifier Notifier
}

// NewService creates a new import service. notifier may be nil.
func NewService(logger *zap.Logger, trades *store.TradeRepository, jobs *store.JobRepository, notifier Notifier) *Service {
	return &Service{logger: logger, trades: trades, jobs: jobs, notifier: notifier}
}

// ImportResult is returned to the caller of ProcessUpload.
type ImportResult struct {
	ImportID         string                 `json:"import_id"`
	Status           string                 `json:"status"`
	TotalRows        int                    `json:"total_rows"`
	ImportedRows     int                    `json:"imported_rows"`
	DuplicateRows    int                    `json:"duplicate_rows"`
	Errors           models.ImportErrorList `json:"errors"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

// ProcessUpload runs one CSV file through the pipeline. The import job
// is created in the processing state before any parsing so its status is
// queryable even if everything after fails. Any error escaping the
// pipeline is caught here, once, and turns the job into the terminal
// failed state with a single descriptive entry; row errors collected up
// to that point are preserved.
func (s *Service) ProcessUpload(ctx context.Context, userID string, fileBytes []byte, fileName string) (*ImportResult, error) {
	started := time.Now()

	job := &models.ImportJob{
		ImportID:  uuid.NewString(),
		UserID:    userID,
		FileName:  fileName,
		Status:    models.ImportStatusProcessing,
		Errors:    models.ImportErrorList{},
		FileSize:  int64(len(fileBytes)),
		CSVFormat: csvFormatLabel,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	l := s.logger.With(
		zap.String("import_id", job.ImportID),
		zap.String("user_id", userID),
		zap.String("file", fileName),
	)
	l.Info("import started", zap.Int64("file_size", job.FileSize))

	if err := s.run(ctx, l, job, fileBytes); err != nil {
		job.Status = models.ImportStatusFailed
		job.Errors = append(job.Errors, models.ImportError{
			Message: err.Error(),
			Code:    "IMPORT_FAILED",
		})
		s.finalize(ctx, l, job, started)
		l.Error("import failed", zap.Error(err))
		return s.result(job), nil
	}

	job.Status = models.ImportStatusCompleted
	s.finalize(ctx, l, job, started)
	l.Info("import completed",
		zap.Int("total_rows", job.TotalRows),
		zap.Int("imported_rows", job.ImportedRows),
		zap.Int("duplicate_rows", job.DuplicateRows),
		zap.Int64("duration_ms", job.ProcessingTimeMs),
	)
	return s.result(job), nil
}

// run executes the pipeline stages in order: validate headers, parse
// rows, dedup, convert, commit. Returned errors are fatal to the whole
// import; row-level failures are recorded on the job and skipped.
func (s *Service) run(ctx context.Context, l *zap.Logger, job *models.ImportJob, fileBytes []byte) error {
	// Exports frequently carry a UTF-8 BOM which would corrupt the
	// first header name.
	fileBytes = bytes.TrimPrefix(fileBytes, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(fileBytes))
	reader.FieldsPerRecord = -1 // structural check happens per row

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("could not read header row: %w", err)
	}

	validation := ValidateHeaders(header)
	if !validation.IsValid {
		return fmt.Errorf("invalid headers: missing [%s], extra [%s]",
			strings.Join(validation.MissingHeaders, ", "),
			strings.Join(validation.ExtraHeaders, ", "))
	}
	if len(validation.ExtraHeaders) > 0 {
		l.Warn("header row has extra columns, ignoring them",
			zap.Strings("extra", validation.ExtraHeaders))
	}
	cols := NewColumnIndex(header)

	// Parse every data row. Malformed rows are skipped with a warning
	// and never abort the rest of the file.
	var parsed []*ParsedRow
	rowNum := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			l.Warn("skipping unreadable row", zap.Int("row", rowNum), zap.Error(err))
			job.Errors = append(job.Errors, models.ImportError{
				Row:     rowNum,
				Message: err.Error(),
				Code:    CodeBadColumns,
			})
			continue
		}

		row, rowErr := ParseRow(record, cols, rowNum)
		if rowErr != nil {
			l.Warn("skipping malformed row",
				zap.Int("row", rowErr.Row),
				zap.String("field", rowErr.Field),
				zap.String("reason", rowErr.Message),
			)
			job.Errors = append(job.Errors, models.ImportError{
				Row:     rowErr.Row,
				Field:   rowErr.Field,
				Message: rowErr.Message,
				Code:    rowErr.Code,
			})
			continue
		}
		parsed = append(parsed, row)
	}
	job.TotalRows = len(parsed)

	if len(parsed) == 0 {
		return nil
	}

	// Dedup must complete before commit so known duplicates are never
	// written.
	tradeIDs := make([]string, len(parsed))
	for i, row := range parsed {
		tradeIDs[i] = row.TradeID
	}
	existing, err := s.trades.FilterExisting(ctx, job.UserID, tradeIDs)
	if err != nil {
		return err
	}
	duplicates := make(map[string]bool, len(existing))
	for _, id := range existing {
		duplicates[id] = true
	}

	var trades []models.Trade
	for _, row := range parsed {
		if duplicates[row.TradeID] {
			job.DuplicateRows++
			continue
		}
		trade := ToTrade(row)
		trade.UserID = job.UserID
		trades = append(trades, trade)
	}

	// Commit in units the store accepts; the per-unit ceiling is the
	// committer's hard limit.
	for start := 0; start < len(trades); start += store.CommitLimit {
		end := start + store.CommitLimit
		if end > len(trades) {
			end = len(trades)
		}
		result, err := s.trades.CreateBatch(ctx, trades[start:end], job.ImportID)
		if err != nil {
			return err
		}
		job.ImportedRows += result.Created
		for _, ce := range result.Errors {
			job.Errors = append(job.Errors, models.ImportError{
				Field:   "trade_id",
				Message: fmt.Sprintf("record %d: %v", start+ce.Index, ce.Err),
				Code:    "COMMIT_FAILED",
			})
		}
	}

	return nil
}

// finalize stamps the terminal state onto the job record and fires the
// notifier. Bookkeeping failures are logged, not escalated: the job's
// in-memory state is already final and is what the caller receives.
func (s *Service) finalize(ctx context.Context, l *zap.Logger, job *models.ImportJob, started time.Time) {
	now := time.Now()
	job.CompletedAt = &now
	job.ProcessingTimeMs = time.Since(started).Milliseconds()

	err := s.jobs.Update(ctx, job.ImportID, map[string]interface{}{
		"total_rows":         job.TotalRows,
		"imported_rows":      job.ImportedRows,
		"duplicate_rows":     job.DuplicateRows,
		"errors":             job.Errors,
		"status":             job.Status,
		"completed_at":       job.CompletedAt,
		"processing_time_ms": job.ProcessingTimeMs,
	})
	if err != nil {
		l.Error("failed to record import outcome", zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.NotifyImportFinished(ctx, job)
	}
}

func (s *Service) result(job *models.ImportJob) *ImportResult {
	return &ImportResult{
		ImportID:         job.ImportID,
		Status:           job.Status,
		TotalRows:        job.TotalRows,
		ImportedRows:     job.ImportedRows,
		DuplicateRows:    job.DuplicateRows,
		Errors:           job.Errors,
		ProcessingTimeMs: job.ProcessingTimeMs,
	}
}

// GetImportStatus returns one import job by id.
func (s *Service) GetImportStatus(ctx context.Context, importID string) (*models.ImportJob, error) {
	return s.jobs.Get(ctx, importID)
}

// GetImportHistory returns a user's most recent import jobs.
func (s *Service) GetImportHistory(ctx context.Context, userID string, limit int) ([]models.ImportJob, error) {
	return s.jobs.ListByUser(ctx, userID, limit)
}
