package service

import (
	"context"
	"interrogator/internal/model"
	"interrogator/internal/repository"
	"interrogator/pkg/logger"
	"interrogator/pkg/monitoring"
	"interrogator/pkg/tracing"
	"strings"

	"go.uber.org/zap"
)

// SearchScope narrows an answer search. Empty ClassName and QuestionIDs do
// not filter; the tenant always does.
type SearchScope struct {
	ClassName   string
	QuestionIDs []uint
	Tenant      model.Tenant
}

var wildcards = strings.NewReplacer("*", "%", "?", "_")

// CompilePattern turns a user search term into a LIKE pattern matching the
// term anywhere in the value. "*" matches any run of characters and "?" a
// single character.
func CompilePattern(term string) string {
	return wildcards.Replace("%" + term + "%")
}

type SearchService struct {
	Answers   *repository.AnswerRepository
	Questions *repository.QuestionRepository
	Types     *repository.QuestionTypeRepository
}

func NewSearchService(answers *repository.AnswerRepository, questions *repository.QuestionRepository, types *repository.QuestionTypeRepository) *SearchService {
	return &SearchService{Answers: answers, Questions: questions, Types: types}
}

// SearchExact returns answers whose value equals term.
func (s *SearchService) SearchExact(ctx context.Context, term string, scope SearchScope) ([]model.Answer, error) {
	return s.run(ctx, "exact", repository.AnswerSearch{
		Value:          term,
		AnswerableType: scope.ClassName,
		QuestionIDs:    scope.QuestionIDs,
		Tenant:         scope.Tenant,
	})
}

// Search returns answers containing term, honoring the "*" and "?"
// wildcards.
func (s *SearchService) Search(ctx context.Context, term string, scope SearchScope) ([]model.Answer, error) {
	return s.run(ctx, "pattern", repository.AnswerSearch{
		Value:          CompilePattern(term),
		Pattern:        true,
		AnswerableType: scope.ClassName,
		QuestionIDs:    scope.QuestionIDs,
		Tenant:         scope.Tenant,
	})
}

// SearchQuestion searches the answers to a single question.
func (s *SearchService) SearchQuestion(ctx context.Context, term, className string, ref model.QuestionRef, tenant model.Tenant) ([]model.Answer, error) {
	if ref.IsZero() {
		return nil, missing("question")
	}
	question, err := s.Questions.Resolve(ctx, ref, false)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, term, SearchScope{ClassName: className, QuestionIDs: []uint{question.ID}, Tenant: tenant})
}

// SearchByType searches the answers to every question of one type. A type
// without questions matches nothing.
func (s *SearchService) SearchByType(ctx context.Context, term, className string, questionType model.QuestionTypeRef, tenant model.Tenant) ([]model.Answer, error) {
	if questionType.IsZero() {
		return nil, missing("question type")
	}
	qt, err := s.Types.Resolve(ctx, questionType)
	if err != nil {
		return nil, err
	}
	ids, err := s.Questions.IDsByType(ctx, qt.ID)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, "pattern", repository.AnswerSearch{
		Value:               CompilePattern(term),
		Pattern:             true,
		AnswerableType:      className,
		QuestionIDs:         ids,
		RestrictToQuestions: true,
		Tenant:              tenant,
	})
}

func (s *SearchService) SearchSmallText(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.SmallText), tenant)
}

func (s *SearchService) SearchLargeText(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.LargeText), tenant)
}

func (s *SearchService) SearchNumeric(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.Numeric), tenant)
}

func (s *SearchService) SearchDateTime(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.DateTime), tenant)
}

func (s *SearchService) SearchMultipleChoice(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.MultipleChoice), tenant)
}

func (s *SearchService) SearchFileUpload(ctx context.Context, term, className string, tenant model.Tenant) ([]model.Answer, error) {
	return s.SearchByType(ctx, term, className, model.BySlug[model.QuestionType](model.FileUpload), tenant)
}

func (s *SearchService) run(ctx context.Context, mode string, q repository.AnswerSearch) (answers []model.Answer, err error) {
	ctx, span := tracing.Start(ctx, "search."+mode)
	defer func() { tracing.End(span, err) }()

	monitoring.SearchQueries.WithLabelValues(mode).Inc()
	answers, err = s.Answers.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("answers searched",
		zap.String("mode", mode),
		zap.String("value", q.Value),
		zap.Stringer("tenant", q.Tenant),
		zap.Int("hits", len(answers)))
	return answers, nil
}
