package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pathwaygaza/pathway-back/internal/apperr"
	"github.com/pathwaygaza/pathway-back/internal/models"
)

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found.")
		}
		return nil, apperr.Internal(err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, user *models.User) error {
	if err := DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("A user with this email or username already exists.")
		}
		return apperr.Internal(err)
	}
	return nil
}

// ProvisionExternalUser finds or creates the account behind an external
// identity. New accounts get no usable password; a changed email at the
// provider is mirrored locally.
func ProvisionExternalUser(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	var user models.User
	err := DB.WithContext(ctx).Where("external_uid = ?", uid).First(&user).Error
	if err == nil {
		if user.Email != email && email != "" {
			if err := DB.WithContext(ctx).Model(&user).Update("email", email).Error; err != nil {
				return nil, apperr.Internal(err)
			}
			user.Email = email
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	username := displayName
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	user = models.User{
		Email:       email,
		Username:    username,
		ExternalUID: &uid,
		CreatedAt:   time.Now(),
	}
	createErr := DB.WithContext(ctx).Create(&user).Error
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		// username taken, or a concurrent first sign-in won the race
		if err := DB.WithContext(ctx).Where("external_uid = ?", uid).First(&user).Error; err == nil {
			return &user, nil
		}
		user.ID = 0
		user.Username = fmt.Sprintf("%s-%s", username, shortUID(uid))
		createErr = DB.WithContext(ctx).Create(&user).Error
	}
	if createErr != nil {
		return nil, apperr.Internal(createErr)
	}
	return &user, nil
}

func shortUID(uid string) string {
	if len(uid) > 8 {
		return uid[:8]
	}
	return uid
}

// ProfileUpdate carries the only profile fields a user may change. Email and
// credentials are immutable through this path.
type ProfileUpdate struct {
	Username  *string
	BirthDate *time.Time
	GradeID   *uint
}

func UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.BirthDate != nil {
		fields["birth_date"] = *update.BirthDate
	}
	if update.GradeID != nil {
		if _, err := GetGrade(ctx, *update.GradeID); err != nil {
			return nil, err
		}
		fields["grade_id"] = *update.GradeID
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := DB.WithContext(ctx).Model(user).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("A user with this username already exists.")
		}
		return nil, apperr.Internal(err)
	}
	return GetUserByID(ctx, userID)
}
