package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"yatube/access"
	"yatube/events"
	"yatube/feed"
	"yatube/media"
	"yatube/models"
	"yatube/session"
	"yatube/store"
)

// Index is the home timeline. The rendered body is cached per page number
// for pageTTL and deliberately not refreshed when posts change.
func (s *Server) Index(c *gin.Context) {
	ctx := c.Request.Context()
	count, err := s.store.CountPosts(ctx, store.PostFilter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	number := feed.Clamp(count, feed.ParsePage(c.Query("page")))
	key := indexCacheKey(number)

	if body, ok, err := s.pages.Get(ctx, key); err != nil {
		log.Printf("page cache get %s: %v", key, err)
	} else if ok {
		c.Header("X-Page-Cache", "hit")
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
		return
	}

	page, err := s.feed.Home(ctx, number)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(IndexView{Title: "Latest posts", Page: pageView(page)}); err != nil {
		s.fail(c, err)
		return
	}
	body := buf.Bytes()
	if err := s.pages.Set(ctx, key, body, s.pageTTL); err != nil {
		log.Printf("page cache set %s: %v", key, err)
	}
	c.Header("X-Page-Cache", "miss")
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
}

// indexCacheKey ignores every query parameter except the page.
func indexCacheKey(page int) string {
	return fmt.Sprintf("/?page=%d", page)
}

func (s *Server) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	group, err := s.store.GroupBySlug(ctx, c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	page, err := s.feed.Group(ctx, group.ID, feed.ParsePage(c.Query("page")))
	if err != nil {
		s.fail(c, err)
		return
	}
	render(c, http.StatusOK, GroupPageView{Group: groupView(*group), Page: pageView(page)})
}

func (s *Server) PostDetail(c *gin.Context) {
	ctx := c.Request.Context()
	post, ok := s.loadPost(c)
	if !ok {
		return
	}
	comments, err := s.store.CommentsForPost(ctx, post.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	count, err := s.store.CountPosts(ctx, store.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		s.fail(c, err)
		return
	}
	render(c, http.StatusOK, PostDetailView{
		Post:             postView(*post),
		AuthorPostsCount: count,
		Comments:         commentViews(comments),
		CanEdit:          access.IsAuthor(session.CurrentUser(c), post),
	})
}

func (s *Server) PostCreate(c *gin.Context) {
	ctx := c.Request.Context()
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.CreatePost, nil, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}

	form, err := s.emptyForm(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, form)
		return
	}

	input, ok := s.bindPostForm(c, &form)
	if !ok {
		render(c, http.StatusBadRequest, form)
		return
	}
	post := &models.Post{Text: input.text, AuthorID: user.ID, GroupID: input.groupID}
	if input.image != nil {
		post.Image = *input.image
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		s.discardImage(ctx, input.image)
		if errors.Is(err, store.ErrConstraintViolation) || errors.Is(err, store.ErrNotFound) {
			log.Printf("create post rejected: %v", err)
			form.Errors = map[string]string{"form": formRejected}
			render(c, http.StatusBadRequest, form)
			return
		}
		s.fail(c, err)
		return
	}

	s.events.Publish(events.SubjectPostCreated, events.Event{
		PostID:    post.ID,
		Actor:     user.Username,
		Author:    user.Username,
		GroupSlug: input.groupSlug,
	})
	redirect(c, access.ProfileURL(user.Username))
}

func (s *Server) PostEdit(c *gin.Context) {
	ctx := c.Request.Context()
	post, ok := s.loadPost(c)
	if !ok {
		return
	}
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.EditPost, post, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}

	form, err := s.emptyForm(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	form.IsEdit = true
	form.PostID = post.ID

	if c.Request.Method == http.MethodGet {
		form.Text = post.Text
		if post.Group != nil {
			form.Group = strconv.FormatUint(uint64(post.Group.ID), 10)
		}
		render(c, http.StatusOK, form)
		return
	}

	input, ok := s.bindPostForm(c, &form)
	if !ok {
		render(c, http.StatusBadRequest, form)
		return
	}
	_, err = s.store.UpdatePost(ctx, post.ID, store.PostChanges{Text: input.text, GroupID: input.groupID, Image: input.image})
	if err != nil {
		s.discardImage(ctx, input.image)
		if errors.Is(err, store.ErrConstraintViolation) {
			log.Printf("edit post %d rejected: %v", post.ID, err)
			form.Errors = map[string]string{"form": formRejected}
			render(c, http.StatusBadRequest, form)
			return
		}
		s.fail(c, err)
		return
	}
	if input.image != nil && post.Image != "" && post.Image != *input.image {
		s.discardImage(ctx, &post.Image)
	}

	s.events.Publish(events.SubjectPostEdited, events.Event{
		PostID:    post.ID,
		Actor:     user.Username,
		Author:    user.Username,
		GroupSlug: input.groupSlug,
	})
	redirect(c, access.PostURL(post.ID))
}

func (s *Server) PostDelete(c *gin.Context) {
	post, ok := s.loadPost(c)
	if !ok {
		return
	}
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.DeletePost, post, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}
	if err := s.store.DeletePost(c.Request.Context(), post.ID); err != nil {
		s.fail(c, err)
		return
	}
	s.discardImage(c.Request.Context(), &post.Image)
	s.events.Publish(events.SubjectPostDeleted, events.Event{PostID: post.ID, Actor: user.Username, Author: user.Username})
	redirect(c, access.ProfileURL(user.Username))
}

// AddComment always lands back on the post; an empty comment is dropped.
func (s *Server) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.Comment, nil, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}
	post, ok := s.loadPost(c)
	if !ok {
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text != "" {
		comment := &models.Comment{PostID: post.ID, AuthorID: user.ID, Text: text}
		if err := s.store.CreateComment(ctx, comment); err != nil {
			s.fail(c, err)
			return
		}
		s.events.Publish(events.SubjectCommentAdded, events.Event{
			PostID:    post.ID,
			CommentID: comment.ID,
			Actor:     user.Username,
			Author:    post.Author.Username,
		})
	}
	redirect(c, access.PostURL(post.ID))
}

func (s *Server) Media(c *gin.Context) {
	rc, contentType, err := s.media.Open(c.Request.Context(), c.Param("id"))
	if errors.Is(err, media.ErrNotFound) {
		s.NotFound(c)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}

func (s *Server) loadPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		s.NotFound(c)
		return nil, false
	}
	post, err := s.store.PostByID(c.Request.Context(), uint(id))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return post, true
}

const formRejected = "The post could not be saved, check the form and try again."

// discardImage removes an image nothing refers to any more.
func (s *Server) discardImage(ctx context.Context, id *string) {
	if id == nil || *id == "" {
		return
	}
	if err := s.media.Delete(ctx, *id); err != nil && !errors.Is(err, media.ErrNotFound) {
		log.Printf("[WARN] remove image %s: %v", *id, err)
	}
}

type postInput struct {
	text      string
	groupID   *uint
	groupSlug string
	// image is nil when no file was uploaded.
	image *string
}

func (s *Server) emptyForm(c *gin.Context) (PostFormView, error) {
	groups, err := s.store.ListGroups(c.Request.Context())
	if err != nil {
		return PostFormView{}, err
	}
	return PostFormView{Groups: groupViews(groups)}, nil
}

// bindPostForm reads text, group and image from the request. The image is
// stored only once text and group are valid. On a validation failure it
// fills form.Errors and returns false.
func (s *Server) bindPostForm(c *gin.Context, form *PostFormView) (postInput, bool) {
	ctx := c.Request.Context()
	var in postInput
	form.Errors = map[string]string{}

	form.Text = c.PostForm("text")
	form.Group = c.PostForm("group")
	in.text = strings.TrimSpace(form.Text)
	if in.text == "" {
		form.Errors["text"] = "This field is required."
	}

	if form.Group != "" {
		id, err := strconv.ParseUint(form.Group, 10, 64)
		if err != nil {
			form.Errors["group"] = "Select a valid choice."
		} else if g, err := s.store.GroupByID(ctx, uint(id)); err != nil {
			form.Errors["group"] = "Select a valid choice."
		} else {
			gid := g.ID
			in.groupID = &gid
			in.groupSlug = g.Slug
		}
	}

	if len(form.Errors) > 0 {
		return in, false
	}

	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > media.MaxUploadSize {
			form.Errors["image"] = "Image is too large, the limit is 5MB."
		} else if f, err := fh.Open(); err != nil {
			form.Errors["image"] = "Could not read the uploaded file."
		} else {
			id, err := s.media.Save(ctx, f)
			f.Close()
			switch {
			case errors.Is(err, media.ErrUnsupportedType):
				form.Errors["image"] = "Upload a valid image."
			case err != nil:
				log.Printf("image upload failed: %v", err)
				form.Errors["image"] = "Could not store the uploaded image."
			default:
				in.image = &id
			}
		}
	}

	if len(form.Errors) > 0 {
		return in, false
	}
	form.Errors = nil
	return in, true
}
