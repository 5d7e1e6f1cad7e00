package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// Store limits. ExistenceQueryLimit is the record store's cap on keys
// per existence query; CommitLimit is the hard ceiling on records per
// atomic write batch.
const (
	ExistenceQueryLimit = 10
	CommitLimit         = 1000
)

// ErrBatchTooLarge is returned when a write batch exceeds CommitLimit.
var ErrBatchTooLarge = errors.New("write batch exceeds the commit limit")

// TradeRepository persists canonical trade records. All reads and writes
// are scoped to a single owner.
type TradeRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTradeRepository creates a new TradeRepository.
func NewTradeRepository(db *gorm.DB, logger *zap.Logger) *TradeRepository {
	return &TradeRepository{db: db, logger: logger}
}

// FilterExisting returns the subset of tradeIDs already stored for the
// user, preserving candidate order. Existence queries are capped at
// ExistenceQueryLimit keys, so candidates are checked chunk by chunk and
// the results concatenated. This is the only place natural-key
// uniqueness is enforced; the store itself does not guarantee it.
func (r *TradeRepository) FilterExisting(ctx context.Context, userID string, tradeIDs []string) ([]string, error) {
	existing := make([]string, 0)
	for start := 0; start < len(tradeIDs); start += ExistenceQueryLimit {
		end := start + ExistenceQueryLimit
		if end > len(tradeIDs) {
			end = len(tradeIDs)
		}
		chunk := tradeIDs[start:end]

		var found []string
		if err := r.db.WithContext(ctx).
			Model(&models.Trade{}).
			Where("user_id = ? AND trade_id IN ?", userID, chunk).
			Pluck("trade_id", &found).Error; err != nil {
			return nil, fmt.Errorf("existence query failed: %w", err)
		}

		hits := make(map[string]bool, len(found))
		for _, id := range found {
			hits[id] = true
		}
		for _, id := range chunk {
			if hits[id] {
				existing = append(existing, id)
			}
		}
	}
	return existing, nil
}

// CommitResult reports the outcome of one atomic write batch.
type CommitResult struct {
	Created int
	Errors  []CommitError
}

// CommitError is a per-record failure inside a batch, by input index.
type CommitError struct {
	Index int
	Err   error
}

// CreateBatch persists trades as one transaction, stamping each record
// with the import batch and time. Individual create failures are
// collected by index without aborting the remaining records; validation
// has already happened upstream, so the atomic unit covers the write
// itself.
func (r *TradeRepository) CreateBatch(ctx context.Context, trades []models.Trade, importBatch string) (CommitResult, error) {
	if len(trades) > CommitLimit {
		return CommitResult{}, ErrBatchTooLarge
	}

	result := CommitResult{}
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range trades {
			trades[i].ImportBatch = importBatch
			trades[i].ImportedAt = &now
			if err := tx.Create(&trades[i]).Error; err != nil {
				r.logger.Warn("failed to create trade in batch",
					zap.Int("index", i),
					zap.String("trade_id", trades[i].TradeID),
					zap.Error(err))
				result.Errors = append(result.Errors, CommitError{Index: i, Err: err})
				continue
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return CommitResult{}, fmt.Errorf("batch write failed: %w", err)
	}
	return result, nil
}

// ListByUser returns a user's trades entered at or after since, oldest
// first (the order the statistics scan expects). A zero since means no
// lower bound.
func (r *TradeRepository) ListByUser(ctx context.Context, userID string, since time.Time) ([]models.Trade, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("entry_time >= ?", since)
	}

	var trades []models.Trade
	if err := query.Order("entry_time asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("could not list trades: %w", err)
	}
	return trades, nil
}
