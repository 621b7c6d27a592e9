package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"yatube/models"
)

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return fmt.Errorf("create comment: empty text: %w", ErrConstraintViolation)
	}
	return translate("create comment", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &models.Post{}, "id = ?", c.PostID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("post %d: %w", c.PostID, ErrNotFound)
		}
		ok, err = exists(tx, &models.User{}, "id = ?", c.AuthorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("author %d: %w", c.AuthorID, ErrNotFound)
		}
		return tx.Omit("Post", "Author").Create(c).Error
	}))
}

// CommentsForPost returns the comments of a post in the order they were written.
func (s *Store) CommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := make([]models.Comment, 0)
	err := s.conn(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, translate("comments for post", err)
	}
	return comments, nil
}
