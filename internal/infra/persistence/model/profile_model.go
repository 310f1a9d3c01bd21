// Package model holds the GORM table mappings for the PostgreSQL schema.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel mirrors the 'profiles' table. PostgreSQL generates UUIDs via
// uuid_generate_v7(). Identity columns are nullable; absence is meaningful to
// the duplicate grouping logic, so empty strings are never written.
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      *string   `gorm:"type:varchar(100)"`
	Email     *string   `gorm:"type:varchar(255);index"`
	Class     *string   `gorm:"type:varchar(50)"`
	RoleID    *int      `gorm:"type:int"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Authentications []AuthenticationModel `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	Devices         []DeviceModel         `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

// RoleModel mirrors the 'roles' table.
type RoleModel struct {
	ID   int    `gorm:"primary_key"`
	Name string `gorm:"type:varchar(50);unique;not null"`
}

// TableName explicitly sets the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}
