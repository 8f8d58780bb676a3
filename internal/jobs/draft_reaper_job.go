package jobs

import (
	"time"

	"gorm.io/gorm"

	"listing-market/internal/logger"
	"listing-market/internal/models"
)

// DraftReaperJob purges wizard drafts that have been abandoned
type DraftReaperJob struct {
	db     *gorm.DB
	maxAge time.Duration
}

func NewDraftReaperJob(db *gorm.DB, maxAge time.Duration) *DraftReaperJob {
	return &DraftReaperJob{db: db, maxAge: maxAge}
}

// Start begins the periodic reaping job
func (j *DraftReaperJob) Start(interval time.Duration) {
	go func() {
		// Run immediately on start
		j.reap()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			j.reap()
		}
	}()
}

func (j *DraftReaperJob) reap() {
	cutoff := time.Now().Add(-j.maxAge)

	result := j.db.Where("updated_at < ?", cutoff).Delete(&models.ListingDraft{})
	if result.Error != nil {
		logger.Log.Warnf("Draft reap failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		logger.Log.Infof("Reaped %d abandoned drafts", result.RowsAffected)
	}
}
