package service

import (
	"context"
	"interrogator/internal/model"

	"gorm.io/gorm"
)

// OptionsSynchronizer reconciles the options bag of a section, group,
// question or answer. Every single key change is written immediately.
//
// The read-diff-write sequence is not guarded against concurrent writers to
// the same row; the last writer wins.
type OptionsSynchronizer struct {
	DB *gorm.DB
}

func NewOptionsSynchronizer(db *gorm.DB) *OptionsSynchronizer {
	return &OptionsSynchronizer{DB: db}
}

func (s *OptionsSynchronizer) WithTx(tx *gorm.DB) *OptionsSynchronizer {
	return &OptionsSynchronizer{DB: tx}
}

// SetOption adds or overwrites one key and persists it.
func (s *OptionsSynchronizer) SetOption(ctx context.Context, target model.Optioned, key string, value model.Value) error {
	opts := target.GetOptions().Clone()
	opts[key] = value
	target.PutOptions(opts)
	return s.persist(ctx, target)
}

// UnsetOption removes one key and persists the result.
func (s *OptionsSynchronizer) UnsetOption(ctx context.Context, target model.Optioned, key string) error {
	opts := target.GetOptions().Clone()
	delete(opts, key)
	target.PutOptions(opts)
	return s.persist(ctx, target)
}

// Sync makes the stored options equal to desired: every desired key is set,
// every other key is removed. An empty desired map clears the bag.
func (s *OptionsSynchronizer) Sync(ctx context.Context, target model.Optioned, desired model.Options) error {
	current := target.GetOptions()
	var toRemove []string
	for _, key := range current.Keys() {
		if _, keep := desired[key]; !keep {
			toRemove = append(toRemove, key)
		}
	}

	for _, key := range desired.Keys() {
		if err := s.SetOption(ctx, target, key, desired[key]); err != nil {
			return err
		}
	}
	for _, key := range toRemove {
		if err := s.UnsetOption(ctx, target, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *OptionsSynchronizer) persist(ctx context.Context, target model.Optioned) error {
	return s.DB.WithContext(ctx).Model(target).Update("options", model.NewOptionsColumn(target.GetOptions())).Error
}
