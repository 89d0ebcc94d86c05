package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qafariamirhossein/3d-portfolio/internal/models"
)

// GormLedger stores seed history in the seed_runs / seed_records tables.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(db *gorm.DB) *GormLedger {
	return &GormLedger{db: db}
}

func (l *GormLedger) Start(ctx context.Context, origin string) (string, error) {
	run := models.SeedRun{
		ID:        uuid.NewString(),
		CMSOrigin: origin,
		Status:    "running",
		StartedAt: time.Now(),
	}
	if err := l.db.WithContext(ctx).Create(&run).Error; err != nil {
		return "", err
	}
	return run.ID, nil
}

func (l *GormLedger) Record(ctx context.Context, runID string, o *Outcome) error {
	rec := models.SeedRecord{
		RunID:      runID,
		Kind:       o.Kind,
		NaturalKey: o.Key,
		State:      string(o.State),
		CMSID:      o.ID,
	}
	if o.Err != nil {
		rec.Error = o.Err.Error()
	}
	return l.db.WithContext(ctx).Create(&rec).Error
}

func (l *GormLedger) Finish(ctx context.Context, runID string, runErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      "completed",
		"finished_at": &now,
	}
	if runErr != nil {
		updates["status"] = "failed"
		updates["error"] = runErr.Error()
	}
	return l.db.WithContext(ctx).Model(&models.SeedRun{}).Where("id = ?", runID).Updates(updates).Error
}

// Records returns the outcomes of one run in insertion order.
func (l *GormLedger) Records(ctx context.Context, runID string) ([]models.SeedRecord, error) {
	var recs []models.SeedRecord
	err := l.db.WithContext(ctx).Where("run_id = ?", runID).Order("id asc").Find(&recs).Error
	return recs, err
}

// LastRun returns the most recently started run.
func (l *GormLedger) LastRun(ctx context.Context) (*models.SeedRun, error) {
	var run models.SeedRun
	if err := l.db.WithContext(ctx).Order("started_at desc").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}
