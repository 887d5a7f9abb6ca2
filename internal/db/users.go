package db

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/leetsync/leetsync/internal/db/models"
	"gorm.io/gorm"
)

// UpsertUser inserts a user on first login or refreshes the handle and
// email on subsequent logins, keyed by the GitHub numeric ID. The generated
// UUID survives re-authorization so sessions and vault rows stay attached
// to the same identity.
func UpsertUser(gdb *gorm.DB, githubID int64, username, email string) (models.User, error) {
	var user models.User
	err := gdb.Where("github_id = ?", githubID).First(&user).Error
	switch {
	case err == nil:
		user.Username = username
		user.Email = email
		if err := gdb.Save(&user).Error; err != nil {
			return models.User{}, fmt.Errorf("update user: %w", err)
		}
		return user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:       uuid.New().String(),
			GithubID: githubID,
			Username: username,
			Email:    email,
		}
		if err := gdb.Create(&user).Error; err != nil {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	default:
		return models.User{}, fmt.Errorf("lookup user: %w", err)
	}
}
