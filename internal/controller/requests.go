package controller

import (
	"interrogator/internal/model"
)

type CreateSectionRequest struct {
	Name      string        `json:"name" binding:"required"`
	ClassName string        `json:"className"`
	Options   model.Options `json:"options"`
}

type UpdateSectionRequest struct {
	Name      *string       `json:"name"`
	ClassName *string       `json:"className"`
	Options   model.Options `json:"options"`
}

type CopySectionRequest struct {
	ClassName string `json:"className" binding:"required"`
}

type CreateGroupRequest struct {
	Name    string        `json:"name" binding:"required"`
	Section string        `json:"section" binding:"required"` // id or slug
	Options model.Options `json:"options"`
}

type UpdateGroupRequest struct {
	Name    *string       `json:"name"`
	Section string        `json:"section"`
	Options model.Options `json:"options"`
}

type CopyGroupRequest struct {
	Section string `json:"section" binding:"required"`
}

type CreateQuestionRequest struct {
	Name        string        `json:"name" binding:"required"`
	Type        string        `json:"type" binding:"required"`  // id or slug
	Group       string        `json:"group" binding:"required"` // id or slug
	Options     model.Options `json:"options"`
	Choices     []string      `json:"choices"`
	AllowsOther bool          `json:"allowsMultipleChoiceOther"`
}

type UpdateQuestionRequest struct {
	Name    *string       `json:"name"`
	Group   string        `json:"group"`
	Options model.Options `json:"options"`
}

type CopyQuestionRequest struct {
	Group string `json:"group" binding:"required"`
}

type AddChoicesRequest struct {
	Choices []string `json:"choices" binding:"required,min=1"`
}

type AllowsOtherRequest struct {
	Allow bool `json:"allow"`
}

// SetOptionRequest carries a single option value of any JSON kind except null.
type SetOptionRequest struct {
	Value model.Value `json:"value"`
}

// AnswerRequest carries the raw answer value; scalars are stored as text.
type AnswerRequest struct {
	Value interface{} `json:"value" binding:"required"`
}
