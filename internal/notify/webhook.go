package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/models"
)

// Event is the payload posted to the configured webhook when an import
// job reaches a terminal state.
type Event struct {
	ImportID      string `json:"import_id"`
	UserID        string `json:"user_id"`
	FileName      string `json:"file_name"`
	Status        string `json:"status"`
	TotalRows     int    `json:"total_rows"`
	ImportedRows  int    `json:"imported_rows"`
	DuplicateRows int    `json:"duplicate_rows"`
}

// Client posts import lifecycle events to an external webhook. Delivery
// is best-effort: failures are logged and never fail the import itself.
type Client struct {
	client  *resty.Client
	url     string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewClient creates a webhook client from configuration.
func NewClient(cfg *config.Webhook, logger *zap.Logger) *Client {
	return &Client{
		client:  resty.New(),
		url:     cfg.URL,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
	}
}

// NotifyImportFinished posts the job's terminal state. Transport errors
// and 5xx responses are retried up to three times.
func (c *Client) NotifyImportFinished(ctx context.Context, job *models.ImportJob) {
	event := Event{
		ImportID:      job.ImportID,
		UserID:        job.UserID,
		FileName:      job.FileName,
		Status:        job.Status,
		TotalRows:     job.TotalRows,
		ImportedRows:  job.ImportedRows,
		DuplicateRows: job.DuplicateRows,
	}

	const maxRetries = 3
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("webhook rate limiter interrupted", zap.Error(err))
			return
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(event).
			Post(c.url)
		if err != nil {
			lastErr = err
		} else if resp.StatusCode() >= 500 {
			lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode())
		} else {
			c.logger.Debug("webhook delivered",
				zap.String("import_id", event.ImportID),
				zap.Int("status_code", resp.StatusCode()))
			return
		}

		c.logger.Warn("webhook delivery attempt failed",
			zap.Int("attempt", i+1),
			zap.Error(lastErr))
	}

	c.logger.Error("webhook delivery failed",
		zap.String("import_id", event.ImportID),
		zap.Error(lastErr))
}
