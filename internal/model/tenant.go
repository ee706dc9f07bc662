package model

import (
	"strconv"

	"gorm.io/gorm"
)

// Tenant scopes rows to a team. The zero value is the global tenant, which
// only ever matches rows whose team_id is NULL.
type Tenant struct {
	id    uint
	isSet bool
}

var GlobalTenant = Tenant{}

func TeamTenant(id uint) Tenant {
	return Tenant{id: id, isSet: true}
}

// TenantFromColumn converts a nullable team_id column value.
func TenantFromColumn(col *uint) Tenant {
	if col == nil {
		return GlobalTenant
	}
	return TeamTenant(*col)
}

func (t Tenant) IsGlobal() bool {
	return !t.isSet
}

func (t Tenant) TeamID() (uint, bool) {
	return t.id, t.isSet
}

// Column returns the value stored in a team_id column.
func (t Tenant) Column() *uint {
	if !t.isSet {
		return nil
	}
	id := t.id
	return &id
}

func (t Tenant) String() string {
	if !t.isSet {
		return "global"
	}
	return "team:" + strconv.FormatUint(uint64(t.id), 10)
}

// Scope restricts a query to rows owned by the tenant. The column name may be
// table-qualified.
func (t Tenant) Scope(column string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !t.isSet {
			return db.Where(column + " IS NULL")
		}
		return db.Where(column+" = ?", t.id)
	}
}
