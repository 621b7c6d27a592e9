package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"yatube/models"
)

// PostFilter narrows a post listing. Zero value lists every post.
type PostFilter struct {
	GroupID *uint
	// AuthorID restricts to one author's posts.
	AuthorID *uint
	// FollowerID restricts to authors that this user follows.
	FollowerID *uint
}

// PostChanges carries the editable fields of a post. PubDate and Author are
// never part of an edit.
type PostChanges struct {
	Text    string
	GroupID *uint
	Image   *string
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	p.Text = strings.TrimSpace(p.Text)
	if p.Text == "" {
		return fmt.Errorf("create post: empty text: %w", ErrConstraintViolation)
	}
	return translate("create post", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkRefs(tx, p.AuthorID, p.GroupID); err != nil {
			return err
		}
		return tx.Omit("Author", "Group").Create(p).Error
	}))
}

func (s *Store) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.conn(ctx).Preload("Author").Preload("Group").First(&p, id).Error
	if err != nil {
		return nil, translate("post by id", err)
	}
	return &p, nil
}

func (s *Store) UpdatePost(ctx context.Context, id uint, ch PostChanges) (*models.Post, error) {
	ch.Text = strings.TrimSpace(ch.Text)
	if ch.Text == "" {
		return nil, fmt.Errorf("update post: empty text: %w", ErrConstraintViolation)
	}

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Post
		if err := tx.Select("id", "author_id").First(&p, id).Error; err != nil {
			return err
		}
		if err := checkRefs(tx, p.AuthorID, ch.GroupID); err != nil {
			return err
		}

		cols := []string{"text", "group_id"}
		updates := models.Post{Text: ch.Text, GroupID: ch.GroupID}
		if ch.Image != nil {
			cols = append(cols, "image")
			updates.Image = *ch.Image
		}
		return tx.Model(&models.Post{ID: id}).Select(cols).Updates(&updates).Error
	})
	if err != nil {
		return nil, translate("update post", err)
	}
	return s.PostByID(ctx, id)
}

// DeletePost removes the post together with its comments.
func (s *Store) DeletePost(ctx context.Context, id uint) error {
	return translate("delete post", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil
	}))
}

// ListPosts returns one window of the filtered posts, newest first. The id
// tie-break keeps pages disjoint when several posts share a pub_date.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	posts := make([]models.Post, 0, limit)
	err := s.filtered(ctx, f).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate("list posts", err)
	}
	return posts, nil
}

func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	var n int64
	if err := s.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, translate("count posts", err)
	}
	return n, nil
}

func (s *Store) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := s.conn(ctx).Model(&models.Post{})
	if f.GroupID != nil {
		q = q.Where("group_id = ?", *f.GroupID)
	}
	if f.AuthorID != nil {
		q = q.Where("author_id = ?", *f.AuthorID)
	}
	if f.FollowerID != nil {
		followed := s.conn(ctx).Model(&models.Follow{}).Select("author_id").Where("user_id = ?", *f.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

func checkRefs(tx *gorm.DB, authorID uint, groupID *uint) error {
	ok, err := exists(tx, &models.User{}, "id = ?", authorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("author %d: %w", authorID, ErrNotFound)
	}
	if groupID == nil {
		return nil
	}
	ok, err = exists(tx, &models.Group{}, "id = ?", *groupID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %d: %w", *groupID, ErrNotFound)
	}
	return nil
}
