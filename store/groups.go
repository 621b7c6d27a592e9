package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"yatube/models"
)

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	if g.Slug == "" || g.Title == "" {
		return fmt.Errorf("create group: title and slug are required: %w", ErrConstraintViolation)
	}
	return translate("create group", s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &models.Group{}, "slug = ?", g.Slug)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("slug %q taken: %w", g.Slug, ErrConstraintViolation)
		}
		return tx.Create(g).Error
	}))
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, translate("group by slug", err)
	}
	return &g, nil
}

func (s *Store) GroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).First(&g, id).Error; err != nil {
		return nil, translate("group by id", err)
	}
	return &g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups := make([]models.Group, 0)
	if err := s.conn(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, translate("list groups", err)
	}
	return groups, nil
}
