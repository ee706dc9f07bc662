package model

// AnswerableRef is the polymorphic owner of an answer: a registered type tag
// plus the owner's primary key.
type AnswerableRef struct {
	Type string `json:"type"`
	ID   uint   `json:"id"`
}

// swagger:model Answer
type Answer struct {
	BaseModel
	SoftDeletable
	QuestionID     uint          `gorm:"index;not null" json:"questionId"`
	Question       *Question     `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AnswerableType string        `gorm:"size:100;not null;index:idx_answers_answerable" json:"answerableType"`
	AnswerableID   uint          `gorm:"not null;index:idx_answers_answerable" json:"answerableId"`
	Value          string        `gorm:"type:text;not null" json:"value"`
	Options        OptionsColumn `json:"options"`
	TeamID         *uint         `gorm:"index" json:"teamId"`
}

func (Answer) TableName() string {
	return "answers"
}

func (a *Answer) Answerable() AnswerableRef {
	return AnswerableRef{Type: a.AnswerableType, ID: a.AnswerableID}
}

func (a *Answer) GetOptions() Options {
	if o := a.Options.Data(); o != nil {
		return o
	}
	return Options{}
}

func (a *Answer) PutOptions(o Options) {
	a.Options = NewOptionsColumn(o)
}

func (a *Answer) Tenant() Tenant {
	return TenantFromColumn(a.TeamID)
}
