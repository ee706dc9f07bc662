package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AllowsOtherOptionKey is the legacy option key for the "other" choice flag.
// The flag lives in its own column; generic option writes drop this key.
const AllowsOtherOptionKey = "allows_multiple_choice_other"

// swagger:model Question
type Question struct {
	BaseModel
	SoftDeletable
	Name           string                      `gorm:"size:255;not null" json:"name"`
	Slug           string                      `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	QuestionTypeID uint                        `gorm:"index;not null" json:"questionTypeId"`
	Type           *QuestionType               `gorm:"foreignKey:QuestionTypeID" json:"type,omitempty"`
	GroupID        uint                        `gorm:"index;not null" json:"groupId"`
	Group          *Group                      `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Options        OptionsColumn               `json:"options"`
	Choices        datatypes.JSONSlice[string] `json:"choices"` // multiple_choice only
	AllowsOther    bool                        `gorm:"column:allows_multiple_choice_other;default:false" json:"allowsMultipleChoiceOther"`
	TeamID         *uint                       `gorm:"index" json:"teamId"`
	Position       int                         `gorm:"-" json:"order"`
	Answers        []Answer                    `gorm:"foreignKey:QuestionID" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) GetOptions() Options {
	if o := q.Options.Data(); o != nil {
		return o
	}
	return Options{}
}

func (q *Question) PutOptions(o Options) {
	if _, ok := o[AllowsOtherOptionKey]; ok {
		o = o.Clone()
		delete(o, AllowsOtherOptionKey)
	}
	q.Options = NewOptionsColumn(o)
	q.Position = q.Order()
}

func (q *Question) Order() int {
	return q.GetOptions().Order()
}

func (q *Question) Tenant() Tenant {
	return TenantFromColumn(q.TeamID)
}

// AddChoices appends to the choice list. Choices only ever accumulate.
func (q *Question) AddChoices(choices ...string) {
	if len(choices) == 0 {
		return
	}
	q.Choices = append(append(datatypes.JSONSlice[string]{}, q.Choices...), choices...)
}

// TypeSlug is empty until the question type has been loaded.
func (q *Question) TypeSlug() string {
	if q.Type == nil {
		return ""
	}
	return q.Type.Slug
}

func (q *Question) AfterFind(tx *gorm.DB) error {
	q.Position = q.Order()
	return nil
}
