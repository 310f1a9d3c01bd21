package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityModel mirrors the 'activities' table. OwnerID carries no ON DELETE
// action: activities must be re-parented explicitly before their owner row
// can go away.
type ActivityModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Body      string    `gorm:"type:text"`
	Status    string    `gorm:"type:varchar(20);not null"`
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Comments    []CommentModel    `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	Attachments []AttachmentModel `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ActivityModel) TableName() string {
	return "activities"
}

// CommentModel mirrors the 'activity_comments' table.
type CommentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (CommentModel) TableName() string {
	return "activity_comments"
}

// AttachmentModel mirrors the 'activity_attachments' table. The bytes live in
// the blob bucket under Key.
type AttachmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	ActivityID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null"`
	Key         string    `gorm:"type:varchar(512);unique;not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (AttachmentModel) TableName() string {
	return "activity_attachments"
}
