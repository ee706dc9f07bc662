package model

import "gorm.io/gorm"

// Answerable is implemented by host entities that can answer questions.
type Answerable interface {
	// AnswerableType is the tag stored in sections.class_name and
	// answers.answerable_type.
	AnswerableType() string
	AnswerableID() uint
	Tenant() Tenant
	// Touch refreshes the entity's last-modified timestamp.
	Touch(tx *gorm.DB) error
}

func RefOf(a Answerable) AnswerableRef {
	return AnswerableRef{Type: a.AnswerableType(), ID: a.AnswerableID()}
}
