package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tacticalapi/internal/models"
)

type BotStatStore interface {
	Record(ctx context.Context, s *models.BotStat) error
	Latest(ctx context.Context) (*models.BotStat, error)
	LatestBefore(ctx context.Context, t time.Time) (*models.BotStat, error)
	Since(ctx context.Context, t time.Time) ([]models.BotStat, error)
	Between(ctx context.Context, start, end time.Time) ([]models.BotStat, error)
}

type BotStats struct {
	db *gorm.DB
}

func NewBotStats(db *gorm.DB) *BotStats { return &BotStats{db: db} }

func (s *BotStats) Record(ctx context.Context, st *models.BotStat) error {
	if st.Timestamp.IsZero() {
		st.Timestamp = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(st).Error; err != nil {
		return fmt.Errorf("record bot stat: %w", mapErr(err))
	}
	return nil
}

func (s *BotStats) Latest(ctx context.Context) (*models.BotStat, error) {
	var st models.BotStat
	if err := s.db.WithContext(ctx).Order("timestamp desc").Take(&st).Error; err != nil {
		return nil, mapErr(err)
	}
	return &st, nil
}

func (s *BotStats) LatestBefore(ctx context.Context, t time.Time) (*models.BotStat, error) {
	var st models.BotStat
	err := s.db.WithContext(ctx).Where("timestamp <= ?", t).Order("timestamp desc").Take(&st).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &st, nil
}

func (s *BotStats) Since(ctx context.Context, t time.Time) ([]models.BotStat, error) {
	var out []models.BotStat
	err := s.db.WithContext(ctx).Where("timestamp >= ?", t).Order("timestamp asc").Find(&out).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}

func (s *BotStats) Between(ctx context.Context, start, end time.Time) ([]models.BotStat, error) {
	var out []models.BotStat
	err := s.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp asc").
		Find(&out).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return out, nil
}
