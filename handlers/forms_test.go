package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatube/events"
	"yatube/store"
)

func TestPostCreate_WithImage(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	g := e.group("test-slug")

	before, err := e.store.CountPosts(e.ctx, store.PostFilter{})
	require.NoError(t, err)

	w := e.as(author).postMultipart("/create/", map[string]string{
		"text":  "Test text",
		"group": strconv.FormatUint(uint64(g.ID), 10),
	}, "image", "small.gif", smallGIF)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, "/profile/auth/", w.Header().Get("Location"))

	after, err := e.store.CountPosts(e.ctx, store.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	posts, err := e.store.ListPosts(e.ctx, store.PostFilter{GroupID: &g.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	p := posts[0]
	assert.Equal(t, "Test text", p.Text)
	assert.Equal(t, author.ID, p.AuthorID)
	require.NotEmpty(t, p.Image)
	assert.True(t, strings.HasSuffix(p.Image, ".gif"))

	img := e.guest().get("/media/" + p.Image)
	require.Equal(t, http.StatusOK, img.Code)
	assert.Equal(t, "image/gif", img.Header().Get("Content-Type"))
	assert.Equal(t, smallGIF, img.Body.Bytes())

	detail := decode[PostDetailView](t, e.guest().get(fmt.Sprintf("/posts/%d/", p.ID)))
	assert.Equal(t, "/media/"+p.Image, detail.Post.Image)

	assert.Equal(t, []string{events.SubjectPostCreated}, e.events.Subjects())
}

func TestPostCreate_Validation(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")

	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{name: "empty text", form: url.Values{"text": {""}}, field: "text"},
		{name: "blank text", form: url.Values{"text": {"   "}}, field: "text"},
		{name: "unknown group", form: url.Values{"text": {"hi"}, "group": {"999"}}, field: "group"},
		{name: "garbage group", form: url.Values{"text": {"hi"}, "group": {"abc"}}, field: "group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.as(author).postForm("/create/", tt.form)
			require.Equal(t, http.StatusBadRequest, w.Code)
			form := decode[PostFormView](t, w)
			assert.Contains(t, form.Errors, tt.field)
		})
	}

	count, err := e.store.CountPosts(e.ctx, store.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, e.events.Events())
}

func TestPostCreate_RejectsNonImage(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")

	w := e.as(author).postMultipart("/create/", map[string]string{"text": "hi"}, "image", "notes.txt", []byte("plain text, not a picture"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	form := decode[PostFormView](t, w)
	assert.Contains(t, form.Errors, "image")
	assert.Equal(t, "hi", form.Text)
}

func TestPostEdit_ChangesTextAndGroup(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	g1 := e.group("first")
	g2 := e.group("second")
	p := e.post(author, g1, "Original text")

	orig, err := e.store.PostByID(e.ctx, p.ID)
	require.NoError(t, err)

	w := e.as(author).postForm(fmt.Sprintf("/posts/%d/edit/", p.ID), url.Values{
		"text":  {"Edited text"},
		"group": {strconv.FormatUint(uint64(g2.ID), 10)},
	})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), w.Header().Get("Location"))

	got, err := e.store.PostByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited text", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, g2.ID, *got.GroupID)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.True(t, orig.PubDate.Equal(got.PubDate))

	first := decode[GroupPageView](t, e.guest().get("/group/first/"))
	assert.Empty(t, first.Page.Posts)
	second := decode[GroupPageView](t, e.guest().get("/group/second/"))
	assert.Len(t, second.Page.Posts, 1)

	assert.Equal(t, []string{events.SubjectPostEdited}, e.events.Subjects())
}

func TestPostEdit_ClearsGroup(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	g := e.group("first")
	p := e.post(author, g, "Original text")

	w := e.as(author).postForm(fmt.Sprintf("/posts/%d/edit/", p.ID), url.Values{"text": {"No group now"}})
	require.Equal(t, http.StatusFound, w.Code)

	got, err := e.store.PostByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}

func TestPostEdit_EmptyTextKeepsPost(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	p := e.post(author, nil, "Original text")

	w := e.as(author).postForm(fmt.Sprintf("/posts/%d/edit/", p.ID), url.Values{"text": {""}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	form := decode[PostFormView](t, w)
	assert.True(t, form.IsEdit)
	assert.Equal(t, p.ID, form.PostID)

	got, err := e.store.PostByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original text", got.Text)
}

func TestComment_EmptyIsDropped(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	p := e.post(author, nil, "Post")

	w := e.as(author).postForm(fmt.Sprintf("/posts/%d/comment/", p.ID), url.Values{"text": {"  "}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", p.ID), w.Header().Get("Location"))

	comments, err := e.store.CommentsForPost(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestComment_ShownOldestFirst(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")
	reader := e.user("reader")
	p := e.post(author, nil, "Post")
	path := fmt.Sprintf("/posts/%d/comment/", p.ID)

	require.Equal(t, http.StatusFound, e.as(reader).postForm(path, url.Values{"text": {"first"}}).Code)
	require.Equal(t, http.StatusFound, e.as(author).postForm(path, url.Values{"text": {"second"}}).Code)

	v := decode[PostDetailView](t, e.guest().get(fmt.Sprintf("/posts/%d/", p.ID)))
	require.Len(t, v.Comments, 2)
	assert.Equal(t, "first", v.Comments[0].Text)
	assert.Equal(t, "reader", v.Comments[0].Author.Username)
	assert.Equal(t, "second", v.Comments[1].Text)

	published := e.events.Events()
	require.Len(t, published, 2)
	assert.Equal(t, events.SubjectCommentAdded, published[0].Subject)
	assert.Equal(t, "reader", published[0].Event.Actor)
	assert.Equal(t, "auth", published[0].Event.Author)
}

func TestMedia_Missing(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusNotFound, e.guest().get("/media/nope.gif").Code)
}

func TestPostCreate_RejectedFormStoresNoImage(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "blank text", fields: map[string]string{"text": "   "}},
		{name: "unknown group", fields: map[string]string{"text": "hi", "group": "999"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.as(author).postMultipart("/create/", tt.fields, "image", "small.gif", smallGIF)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, e.storedImages())
		})
	}

	count, err := e.store.CountPosts(e.ctx, store.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPostEdit_ReplacedImageIsRemoved(t *testing.T) {
	e := newEnv(t)
	author := e.user("auth")

	w := e.as(author).postMultipart("/create/", map[string]string{"text": "with image"}, "image", "a.gif", smallGIF)
	require.Equal(t, http.StatusFound, w.Code)
	posts, err := e.store.ListPosts(e.ctx, store.PostFilter{}, 0, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	p := posts[0]
	require.Equal(t, []string{p.Image}, e.storedImages())

	editURL := fmt.Sprintf("/posts/%d/edit/", p.ID)
	w = e.as(author).postMultipart(editURL, map[string]string{"text": "new image"}, "image", "b.gif", smallGIF)
	require.Equal(t, http.StatusFound, w.Code)

	got, err := e.store.PostByID(e.ctx, p.ID)
	require.NoError(t, err)
	assert.NotEqual(t, p.Image, got.Image)
	assert.Equal(t, []string{got.Image}, e.storedImages())

	w = e.as(author).postMultipart(editURL, map[string]string{"text": ""}, "image", "c.gif", smallGIF)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{got.Image}, e.storedImages())

	w = e.as(author).postForm(fmt.Sprintf("/posts/%d/delete/", p.ID), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, e.storedImages())
}
