package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// ErrJobNotFound is returned when no import job matches the given id.
var ErrJobNotFound = errors.New("import job not found")

// JobRepository persists import job records.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new import job.
func (r *JobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("could not create import job: %w", err)
	}
	return nil
}

// Update applies partial field updates to the job with the given import id.
func (r *JobRepository) Update(ctx context.Context, importID string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&models.ImportJob{}).
		Where("import_id = ?", importID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("could not update import job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// Get fetches one import job by import id.
func (r *JobRepository) Get(ctx context.Context, importID string) (*models.ImportJob, error) {
	var job models.ImportJob
	err := r.db.WithContext(ctx).Where("import_id = ?", importID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not get import job: %w", err)
	}
	return &job, nil
}

// ListByUser returns a user's most recent import jobs, newest first.
func (r *JobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ImportJob, error) {
	var jobs []models.ImportJob
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("could not list import jobs: %w", err)
	}
	return jobs, nil
}
