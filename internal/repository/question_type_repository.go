package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"interrogator/internal/model"
	"interrogator/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const questionTypeCachePrefix = "interrogator:question_type:"

// QuestionTypeRepository reads the fixed question type table. When Cache is
// set, lookups by id or slug are served from redis.
type QuestionTypeRepository struct {
	DB    *gorm.DB
	Cache *redis.Client
	TTL   time.Duration
}

func NewQuestionTypeRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *QuestionTypeRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &QuestionTypeRepository{DB: db, Cache: rdb, TTL: ttl}
}

func (r *QuestionTypeRepository) WithTx(tx *gorm.DB) *QuestionTypeRepository {
	return &QuestionTypeRepository{DB: tx, Cache: r.Cache, TTL: r.TTL}
}

func (r *QuestionTypeRepository) Resolve(ctx context.Context, ref model.QuestionTypeRef) (*model.QuestionType, error) {
	if ref.IsZero() {
		return nil, nil
	}
	if e, ok := ref.Entity(); ok {
		return e, nil
	}

	key := cacheKey(ref)
	if cached := r.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	qt, err := resolve(ctx, r.DB, ref, questionTypeLookup, false)
	if err != nil {
		return nil, err
	}
	r.store(ctx, qt)
	return qt, nil
}

func (r *QuestionTypeRepository) FindBySlug(ctx context.Context, slug string) (*model.QuestionType, error) {
	return r.Resolve(ctx, model.BySlug[model.QuestionType](slug))
}

func (r *QuestionTypeRepository) List(ctx context.Context) ([]model.QuestionType, error) {
	var types []model.QuestionType
	err := r.DB.WithContext(ctx).Order("id asc").Find(&types).Error
	return types, err
}

func cacheKey(ref model.QuestionTypeRef) string {
	if id, ok := ref.ID(); ok {
		return fmt.Sprintf("%sid:%d", questionTypeCachePrefix, id)
	}
	slug, _ := ref.Slug()
	return questionTypeCachePrefix + "slug:" + slug
}

func (r *QuestionTypeRepository) fromCache(ctx context.Context, key string) *model.QuestionType {
	if r.Cache == nil {
		return nil
	}
	raw, err := r.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("question type cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	var qt model.QuestionType
	if err := json.Unmarshal(raw, &qt); err != nil {
		return nil
	}
	return &qt
}

func (r *QuestionTypeRepository) store(ctx context.Context, qt *model.QuestionType) {
	if r.Cache == nil || qt == nil {
		return
	}
	raw, err := json.Marshal(qt)
	if err != nil {
		return
	}
	pipe := r.Cache.Pipeline()
	pipe.Set(ctx, cacheKey(model.ByID[model.QuestionType](qt.ID)), raw, r.TTL)
	pipe.Set(ctx, cacheKey(model.BySlug[model.QuestionType](qt.Slug)), raw, r.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("question type cache write failed", zap.String("slug", qt.Slug), zap.Error(err))
	}
}
