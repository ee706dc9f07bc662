package model

import "time"

const (
	SmallText      = "small_text"
	LargeText      = "large_text"
	Numeric        = "numeric"
	DateTime       = "date_time"
	MultipleChoice = "multiple_choice"
	FileUpload     = "file_upload"
)

// QuestionType is fixed reference data shared by every tenant.
// swagger:model QuestionType
type QuestionType struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (QuestionType) TableName() string {
	return "question_types"
}

// DefaultQuestionTypes lists the reference rows seeded on migration.
func DefaultQuestionTypes() []QuestionType {
	return []QuestionType{
		{Name: "Small Text", Slug: SmallText},
		{Name: "Large Text", Slug: LargeText},
		{Name: "Numeric", Slug: Numeric},
		{Name: "Date & Time", Slug: DateTime},
		{Name: "Multiple Choice", Slug: MultipleChoice},
		{Name: "File Upload", Slug: FileUpload},
	}
}
