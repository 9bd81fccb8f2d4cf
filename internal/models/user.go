package models

import "time"

// User is the single account type. Local accounts carry a bcrypt hash in
// PasswordHash; accounts provisioned from an external identity provider carry
// an ExternalUID and no usable password. The two are mutually exclusive.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	ExternalUID  *string `gorm:"uniqueIndex;size:128" json:"-"`

	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	GradeID   *uint      `json:"grade_id,omitempty"`
	Grade     *Grade     `gorm:"constraint:OnDelete:SET NULL;" json:"-"`

	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// HasUsablePassword reports whether the account can log in locally.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}
