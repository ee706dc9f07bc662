package model

import "gorm.io/gorm"

// swagger:model Group
type Group struct {
	BaseModel
	SoftDeletable
	Name      string        `gorm:"size:255;not null" json:"name"`
	Slug      string        `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	SectionID uint          `gorm:"index;not null" json:"sectionId"`
	Section   *Section      `gorm:"foreignKey:SectionID" json:"section,omitempty"`
	Options   OptionsColumn `json:"options"`
	TeamID    *uint         `gorm:"index" json:"teamId"`
	Position  int           `gorm:"-" json:"order"`
	Questions []Question    `gorm:"foreignKey:GroupID" json:"questions,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

func (g *Group) GetOptions() Options {
	if o := g.Options.Data(); o != nil {
		return o
	}
	return Options{}
}

func (g *Group) PutOptions(o Options) {
	g.Options = NewOptionsColumn(o)
	g.Position = g.Order()
}

func (g *Group) Order() int {
	return g.GetOptions().Order()
}

func (g *Group) Tenant() Tenant {
	return TenantFromColumn(g.TeamID)
}

func (g *Group) AfterFind(tx *gorm.DB) error {
	g.Position = g.Order()
	return nil
}
