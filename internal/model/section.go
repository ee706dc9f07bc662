package model

import "gorm.io/gorm"

// swagger:model Section
type Section struct {
	BaseModel
	SoftDeletable
	Name      string        `gorm:"size:255;not null" json:"name"`
	Slug      string        `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	ClassName *string       `gorm:"size:255;index" json:"className"` // answerable type; nil when detached
	Options   OptionsColumn `json:"options"`
	TeamID    *uint         `gorm:"index" json:"teamId"`
	Position  int           `gorm:"-" json:"order"`
	Groups    []Group       `gorm:"foreignKey:SectionID" json:"groups,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

func (s *Section) GetOptions() Options {
	if o := s.Options.Data(); o != nil {
		return o
	}
	return Options{}
}

func (s *Section) PutOptions(o Options) {
	s.Options = NewOptionsColumn(o)
	s.Position = s.Order()
}

func (s *Section) Order() int {
	return s.GetOptions().Order()
}

func (s *Section) Tenant() Tenant {
	return TenantFromColumn(s.TeamID)
}

// AppliesTo reports whether the section is attached to the answerable type.
func (s *Section) AppliesTo(answerableType string) bool {
	return s.ClassName != nil && *s.ClassName == answerableType
}

func (s *Section) AfterFind(tx *gorm.DB) error {
	s.Position = s.Order()
	return nil
}
