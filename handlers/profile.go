package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"yatube/access"
	"yatube/events"
	"yatube/feed"
	"yatube/session"
	"yatube/store"
)

const recommendationLimit = 5

func (s *Server) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := s.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		s.fail(c, err)
		return
	}
	page, err := s.feed.Profile(ctx, author.ID, feed.ParsePage(c.Query("page")))
	if err != nil {
		s.fail(c, err)
		return
	}
	followers, err := s.store.CountFollowers(ctx, author.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	followingCount, err := s.store.CountFollowing(ctx, author.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	view := ProfileView{
		Author:         authorView(*author),
		PostsCount:     page.Count,
		Followers:      followers,
		FollowingCount: followingCount,
		Page:           pageView(page),
	}
	if viewer := session.CurrentUser(c); viewer != nil && viewer.ID != author.ID {
		view.CanFollow = true
		view.Following, err = s.store.IsFollowing(ctx, viewer.ID, author.ID)
		if err != nil {
			s.fail(c, err)
			return
		}
	} else if viewer != nil {
		recs, err := s.graph.Recommend(ctx, viewer.Username, recommendationLimit)
		if err != nil {
			log.Printf("[WARN] recommendations for %s: %v", viewer.Username, err)
		}
		view.Recommendations = recs
	}
	render(c, http.StatusOK, view)
}

// FollowIndex is the timeline of authors the current user follows.
func (s *Server) FollowIndex(c *gin.Context) {
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.Follow, nil, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}
	page, err := s.feed.Following(c.Request.Context(), user.ID, feed.ParsePage(c.Query("page")))
	if err != nil {
		s.fail(c, err)
		return
	}
	render(c, http.StatusOK, IndexView{Title: "Your subscriptions", Page: pageView(page)})
}

// ProfileFollow subscribes the current user to the author. Following
// yourself or following twice is a no-op.
func (s *Server) ProfileFollow(c *gin.Context) {
	ctx := c.Request.Context()
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.Follow, nil, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}
	author, err := s.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		s.fail(c, err)
		return
	}

	if author.ID != user.ID {
		err := s.store.Follow(ctx, user.ID, author.ID)
		switch {
		case errors.Is(err, store.ErrConstraintViolation):
			// already following
		case err != nil:
			s.fail(c, err)
			return
		default:
			if err := s.graph.Follow(ctx, user.Username, author.Username); err != nil {
				log.Printf("[WARN] mirror follow %s->%s: %v", user.Username, author.Username, err)
			}
			s.events.Publish(events.SubjectFollowed, events.Event{Actor: user.Username, Author: author.Username})
		}
	}
	redirect(c, access.ProfileURL(author.Username))
}

func (s *Server) ProfileUnfollow(c *gin.Context) {
	ctx := c.Request.Context()
	user := session.CurrentUser(c)
	if d := access.Decide(user, access.Follow, nil, c.Request.URL.Path); !d.Allowed() {
		redirect(c, d.Location)
		return
	}
	author, err := s.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		s.fail(c, err)
		return
	}

	removed, err := s.store.Unfollow(ctx, user.ID, author.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if removed {
		if err := s.graph.Unfollow(ctx, user.Username, author.Username); err != nil {
			log.Printf("[WARN] mirror unfollow %s->%s: %v", user.Username, author.Username, err)
		}
		s.events.Publish(events.SubjectUnfollowed, events.Event{Actor: user.Username, Author: author.Username})
	}
	redirect(c, access.ProfileURL(author.Username))
}
