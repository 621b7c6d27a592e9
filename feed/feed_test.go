package feed_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/database/dbtest"
	"yatube/feed"
	"yatube/models"
	"yatube/store"
)

type fixture struct {
	ctx   context.Context
	store *store.Store
	feed  *feed.Feed
}

func newFixture(t *testing.T) fixture {
	s := store.New(dbtest.New(t))
	return fixture{ctx: context.Background(), store: s, feed: feed.New(s)}
}

func (f fixture) user(t *testing.T, name string) *models.User {
	u := &models.User{Username: name, PasswordHash: "x"}
	require.NoError(t, f.store.CreateUser(f.ctx, u))
	return u
}

func (f fixture) group(t *testing.T, slug string) *models.Group {
	g := &models.Group{Title: "Group " + slug, Slug: slug}
	require.NoError(t, f.store.CreateGroup(f.ctx, g))
	return g
}

func (f fixture) post(t *testing.T, author *models.User, g *models.Group, text string) *models.Post {
	p := &models.Post{Text: text, AuthorID: author.ID}
	if g != nil {
		p.GroupID = &g.ID
	}
	require.NoError(t, f.store.CreatePost(f.ctx, p))
	return p
}

func TestPaginator_ThirteenPosts(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "auth1")
	g := f.group(t, "slug_test")
	for i := 0; i < 13; i++ {
		f.post(t, author, g, fmt.Sprintf("Test post %d", i+1))
	}

	timelines := map[string]func(page int) (feed.Page, error){
		"home":    func(p int) (feed.Page, error) { return f.feed.Home(f.ctx, p) },
		"group":   func(p int) (feed.Page, error) { return f.feed.Group(f.ctx, g.ID, p) },
		"profile": func(p int) (feed.Page, error) { return f.feed.Profile(f.ctx, author.ID, p) },
	}
	for name, get := range timelines {
		t.Run(name, func(t *testing.T) {
			first, err := get(1)
			require.NoError(t, err)
			assert.Len(t, first.Posts, 10)
			assert.True(t, first.HasNext)
			assert.EqualValues(t, 13, first.Count)

			second, err := get(2)
			require.NoError(t, err)
			assert.Len(t, second.Posts, 3)
			assert.False(t, second.HasNext)
			assert.True(t, second.HasPrevious)

			beyond, err := get(50)
			require.NoError(t, err)
			assert.Equal(t, 2, beyond.Number)
			assert.Len(t, beyond.Posts, 3)
		})
	}
}

func TestGroup_EmptyGroupHasEmptyPage(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "auth")
	withPosts := f.group(t, "slug")
	empty := f.group(t, "no-posts-slug")
	f.post(t, author, withPosts, "Test post")

	page, err := f.feed.Group(f.ctx, empty.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
}

func TestGroup_NeverLeaksOtherGroups(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "auth")
	g1 := f.group(t, "g1")
	g2 := f.group(t, "g2")
	for i := 0; i < 4; i++ {
		f.post(t, author, g1, fmt.Sprintf("g1 post %d", i))
		f.post(t, author, g2, fmt.Sprintf("g2 post %d", i))
	}
	f.post(t, author, nil, "no group")

	page, err := f.feed.Group(f.ctx, g1.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 4)
	for _, p := range page.Posts {
		require.NotNil(t, p.GroupID)
		assert.Equal(t, g1.ID, *p.GroupID)
	}
}

func TestFollowing(t *testing.T) {
	f := newFixture(t)
	follower := f.user(t, "follower")
	following := f.user(t, "following")
	f.post(t, following, nil, "Post for the subscription feed")
	f.post(t, follower, nil, "Follower's own post")
	require.NoError(t, f.store.Follow(f.ctx, follower.ID, following.ID))

	page, err := f.feed.Following(f.ctx, follower.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Post for the subscription feed", page.Posts[0].Text)

	own, err := f.feed.Following(f.ctx, following.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, own.Posts, "no implicit self-follow")
}

type failingSource struct{}

func (failingSource) ListPosts(context.Context, store.PostFilter, int, int) ([]models.Post, error) {
	return nil, fmt.Errorf("boom")
}

func (failingSource) CountPosts(context.Context, store.PostFilter) (int64, error) {
	return 3, nil
}

func TestPage_PropagatesErrors(t *testing.T) {
	_, err := feed.New(failingSource{}).Home(context.Background(), 1)
	assert.EqualError(t, err, "boom")
}
