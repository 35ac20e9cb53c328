package ratelimit

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateCounter is the persisted counter row backing DBStore.
type RateCounter struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Count     int       `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// DBStore keeps counters in the shared database so every app instance sees
// the same counts.
type DBStore struct{ DB *gorm.DB }

func NewDBStore(db *gorm.DB) *DBStore { return &DBStore{DB: db} }

// Incr implements Store. The whole read-reset-increment runs in one
// transaction with the row locked, so concurrent instances serialize on the
// same key.
func (s *DBStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	var count int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rc RateCounter
		now := time.Now()
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("key = ?", key).First(&rc).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			rc = RateCounter{Key: key, Count: 1, ExpiresAt: now.Add(window)}
			if cerr := tx.Create(&rc).Error; cerr != nil {
				return cerr
			}
		case err != nil:
			return err
		default:
			if now.After(rc.ExpiresAt) {
				rc.Count = 1
				rc.ExpiresAt = now.Add(window)
			} else {
				rc.Count++
			}
			if serr := tx.Save(&rc).Error; serr != nil {
				return serr
			}
		}
		count = rc.Count
		// Expired rows for other keys are garbage; clean a few up as we go.
		tx.Where("expires_at < ?", now.Add(-window)).Delete(&RateCounter{})
		return nil
	})
	return count, err
}
