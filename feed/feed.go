// Package feed assembles the paginated timelines: home, group, profile and
// the feed of followed authors.
package feed

import (
	"context"

	"yatube/models"
	"yatube/store"
)

type PostSource interface {
	ListPosts(ctx context.Context, f store.PostFilter, offset, limit int) ([]models.Post, error)
	CountPosts(ctx context.Context, f store.PostFilter) (int64, error)
}

type Page struct {
	Number      int           `json:"number"`
	NumPages    int           `json:"numPages"`
	Count       int64         `json:"count"`
	HasNext     bool          `json:"hasNext"`
	HasPrevious bool          `json:"hasPrevious"`
	Posts       []models.Post `json:"-"`
}

type Feed struct {
	src  PostSource
	size int
}

func New(src PostSource) *Feed {
	return &Feed{src: src, size: PageSize}
}

func (f *Feed) Home(ctx context.Context, page int) (Page, error) {
	return f.Page(ctx, store.PostFilter{}, page)
}

func (f *Feed) Group(ctx context.Context, groupID uint, page int) (Page, error) {
	return f.Page(ctx, store.PostFilter{GroupID: &groupID}, page)
}

func (f *Feed) Profile(ctx context.Context, authorID uint, page int) (Page, error) {
	return f.Page(ctx, store.PostFilter{AuthorID: &authorID}, page)
}

// Following lists posts by authors userID follows. The user's own posts show
// up only if they explicitly follow themselves.
func (f *Feed) Following(ctx context.Context, userID uint, page int) (Page, error) {
	return f.Page(ctx, store.PostFilter{FollowerID: &userID}, page)
}

// Page returns page number of the filtered posts. Out of range numbers are
// clamped, so a request past the end yields the last page.
func (f *Feed) Page(ctx context.Context, filter store.PostFilter, number int) (Page, error) {
	count, err := f.src.CountPosts(ctx, filter)
	if err != nil {
		return Page{}, err
	}
	n, pages, offset := window(count, f.size, number)

	posts := make([]models.Post, 0)
	if count > 0 {
		posts, err = f.src.ListPosts(ctx, filter, offset, f.size)
		if err != nil {
			return Page{}, err
		}
	}
	return Page{
		Number:      n,
		NumPages:    pages,
		Count:       count,
		HasNext:     n < pages,
		HasPrevious: n > 1,
		Posts:       posts,
	}, nil
}
