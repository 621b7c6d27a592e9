package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"yatube/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return fmt.Errorf("create user: empty username: %w", ErrConstraintViolation)
	}
	return translate("create user", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.User{}, "username = ?", u.Username)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("username %q taken: %w", u.Username, ErrConstraintViolation)
		}
		return tx.Create(u).Error
	}))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate("user by username", err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate("user by id", err)
	}
	return &u, nil
}
