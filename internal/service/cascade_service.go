package service

import (
	"context"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/pkg/logger"
	"interrogator/pkg/monitoring"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type level int

const (
	sectionLevel level = iota
	groupLevel
	questionLevel
	answerLevel
)

type levelSpec struct {
	table        string
	parentColumn string
	newModel     func() interface{}
}

var levels = [...]levelSpec{
	sectionLevel:  {table: "sections", newModel: func() interface{} { return &model.Section{} }},
	groupLevel:    {table: "groups", parentColumn: "section_id", newModel: func() interface{} { return &model.Group{} }},
	questionLevel: {table: "questions", parentColumn: "group_id", newModel: func() interface{} { return &model.Question{} }},
	answerLevel:   {table: "answers", parentColumn: "question_id", newModel: func() interface{} { return &model.Answer{} }},
}

// CascadeResult counts the rows touched at each level of one cascade.
type CascadeResult struct {
	Batch     string `json:"batch,omitempty"`
	Sections  int64  `json:"sections"`
	Groups    int64  `json:"groups"`
	Questions int64  `json:"questions"`
	Answers   int64  `json:"answers"`
}

func (r *CascadeResult) Total() int64 {
	return r.Sections + r.Groups + r.Questions + r.Answers
}

func (r *CascadeResult) add(l level, n int64) {
	switch l {
	case sectionLevel:
		r.Sections += n
	case groupLevel:
		r.Groups += n
	case questionLevel:
		r.Questions += n
	case answerLevel:
		r.Answers += n
	}
}

func (r *CascadeResult) count(l level) int64 {
	switch l {
	case sectionLevel:
		return r.Sections
	case groupLevel:
		return r.Groups
	case questionLevel:
		return r.Questions
	}
	return r.Answers
}

// CascadeService soft-deletes a node with everything beneath it, and
// restores a node with the descendants that were deleted alongside it.
//
// Every row soft-deleted by one cascade is stamped with the same batch id;
// restore follows that batch. Rows without a batch fall back to the
// deleted_at window of repository.RestoreWindow. Each cascade runs in a
// single transaction.
type CascadeService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{DB: db, now: time.Now}
}

func (s *CascadeService) DeleteSection(ctx context.Context, section *model.Section) (*CascadeResult, error) {
	return s.delete(ctx, sectionLevel, section.ID)
}

func (s *CascadeService) DeleteGroup(ctx context.Context, group *model.Group) (*CascadeResult, error) {
	return s.delete(ctx, groupLevel, group.ID)
}

func (s *CascadeService) DeleteQuestion(ctx context.Context, question *model.Question) (*CascadeResult, error) {
	return s.delete(ctx, questionLevel, question.ID)
}

func (s *CascadeService) RestoreSection(ctx context.Context, section *model.Section) (*CascadeResult, error) {
	return s.restore(ctx, sectionLevel, section.ID, section.DeleteBatch, section.DeletedAt)
}

func (s *CascadeService) RestoreGroup(ctx context.Context, group *model.Group) (*CascadeResult, error) {
	return s.restore(ctx, groupLevel, group.ID, group.DeleteBatch, group.DeletedAt)
}

func (s *CascadeService) RestoreQuestion(ctx context.Context, question *model.Question) (*CascadeResult, error) {
	return s.restore(ctx, questionLevel, question.ID, question.DeleteBatch, question.DeletedAt)
}

func (s *CascadeService) delete(ctx context.Context, start level, id uint) (*CascadeResult, error) {
	res := &CascadeResult{Batch: uuid.NewString()}
	at := s.now()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewCascadeRepository(tx)
		ids := []uint{id}
		for l := start; l <= answerLevel; l++ {
			lvl := levels[l]
			if l > start {
				var err error
				ids, err = repo.LiveIDs(ctx, lvl.newModel(), lvl.parentColumn, ids)
				if err != nil {
					return err
				}
			}
			n, err := repo.MarkDeleted(ctx, lvl.newModel(), ids, res.Batch, at)
			if err != nil {
				return err
			}
			res.add(l, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.report("delete", start, id, res)
	return res, nil
}

func (s *CascadeService) restore(ctx context.Context, start level, id uint, batch string, deletedAt gorm.DeletedAt) (*CascadeResult, error) {
	res := &CascadeResult{Batch: batch}
	if !deletedAt.Valid {
		return res, nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewCascadeRepository(tx)
		return s.restoreTree(ctx, repo, start, repository.DeletedRow{ID: id, DeleteBatch: batch, DeletedAt: deletedAt}, res)
	})
	if err != nil {
		return nil, err
	}

	s.report("restore", start, id, res)
	return res, nil
}

func (s *CascadeService) restoreTree(ctx context.Context, repo *repository.CascadeRepository, l level, row repository.DeletedRow, res *CascadeResult) error {
	n, err := repo.Restore(ctx, levels[l].newModel(), []uint{row.ID})
	if err != nil {
		return err
	}
	res.add(l, n)
	if l == answerLevel {
		return nil
	}

	child := levels[l+1]
	children, err := repo.CorrelatedRows(ctx, child.newModel(), child.parentColumn, row.ID, row.DeleteBatch, row.DeletedAt.Time)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := s.restoreTree(ctx, repo, l+1, c, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *CascadeService) report(op string, start level, id uint, res *CascadeResult) {
	for l := start; l <= answerLevel; l++ {
		if n := res.count(l); n > 0 {
			monitoring.CascadeRows.WithLabelValues(op, levels[l].table).Add(float64(n))
		}
	}
	logger.Log.Info("cascade "+op,
		zap.String("root", levels[start].table),
		zap.Uint("id", id),
		zap.String("batch", res.Batch),
		zap.Int64("groups", res.Groups),
		zap.Int64("questions", res.Questions),
		zap.Int64("answers", res.Answers),
	)
}
