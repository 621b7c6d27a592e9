package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"yatube/models"
)

// Follow records that userID follows authorID. A second call for the same
// pair fails with ErrConstraintViolation.
func (s *Store) Follow(ctx context.Context, userID, authorID uint) error {
	return translate("follow", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []uint{userID, authorID} {
			ok, err := exists(tx, &models.User{}, "id = ?", id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("user %d: %w", id, ErrNotFound)
			}
		}
		dup, err := exists(tx, &models.Follow{}, "user_id = ? AND author_id = ?", userID, authorID)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("user %d already follows %d: %w", userID, authorID, ErrConstraintViolation)
		}
		return tx.Omit("User", "Author").Create(&models.Follow{UserID: userID, AuthorID: authorID}).Error
	}))
}

// Unfollow deletes the single (userID, authorID) row and reports whether it existed.
func (s *Store) Unfollow(ctx context.Context, userID, authorID uint) (bool, error) {
	res := s.conn(ctx).Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if res.Error != nil {
		return false, translate("unfollow", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	ok, err := exists(s.conn(ctx), &models.Follow{}, "user_id = ? AND author_id = ?", userID, authorID)
	if err != nil {
		return false, translate("is following", err)
	}
	return ok, nil
}

func (s *Store) FollowedAuthorIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.conn(ctx).Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Order("author_id ASC").
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, translate("followed authors", err)
	}
	return ids, nil
}

func (s *Store) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&n).Error; err != nil {
		return 0, translate("count followers", err)
	}
	return n, nil
}

func (s *Store) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, translate("count following", err)
	}
	return n, nil
}

func (s *Store) CountFollows(ctx context.Context) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&models.Follow{}).Count(&n).Error; err != nil {
		return 0, translate("count follows", err)
	}
	return n, nil
}
