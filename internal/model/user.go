package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserAnswerableType   = "user"
	ClientAnswerableType = "client"
)

// User is the stock answerable host entity.
// swagger:model User
type User struct {
	BaseModel
	Name          string `gorm:"size:100;not null" json:"name"`
	Email         string `gorm:"size:100;unique;not null" json:"email"`
	CurrentTeamID *uint  `gorm:"index" json:"currentTeamId"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) AnswerableType() string { return UserAnswerableType }
func (u *User) AnswerableID() uint     { return u.ID }
func (u *User) Tenant() Tenant         { return TenantFromColumn(u.CurrentTeamID) }

func (u *User) Touch(tx *gorm.DB) error {
	return tx.Model(u).Update("updated_at", time.Now()).Error
}

// swagger:model Client
type Client struct {
	BaseModel
	Name          string `gorm:"size:100;not null" json:"name"`
	Email         string `gorm:"size:100;unique;not null" json:"email"`
	CurrentTeamID *uint  `gorm:"index" json:"currentTeamId"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) AnswerableType() string { return ClientAnswerableType }
func (c *Client) AnswerableID() uint     { return c.ID }
func (c *Client) Tenant() Tenant         { return TenantFromColumn(c.CurrentTeamID) }

func (c *Client) Touch(tx *gorm.DB) error {
	return tx.Model(c).Update("updated_at", time.Now()).Error
}
