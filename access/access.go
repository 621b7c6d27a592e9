// Package access decides what an actor may do. It never touches the store:
// callers pass in the actor and the resource they already loaded.
package access

import (
	"fmt"
	"net/url"
	"strings"

	"yatube/models"
)

// LoginURL is where anonymous actors are sent for protected actions.
const LoginURL = "/auth/login/"

type Action int

const (
	View Action = iota
	CreatePost
	EditPost
	DeletePost
	Comment
	Follow
)

func (a Action) String() string {
	switch a {
	case View:
		return "view"
	case CreatePost:
		return "create post"
	case EditPost:
		return "edit post"
	case DeletePost:
		return "delete post"
	case Comment:
		return "comment"
	case Follow:
		return "follow"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

type Outcome int

const (
	Allow Outcome = iota
	// RedirectLogin sends an anonymous actor to the login page with next=.
	RedirectLogin
	// RedirectDetail is the soft refusal for a non-owner editing a post.
	RedirectDetail
)

type Decision struct {
	Outcome Outcome
	// Location is set for redirects.
	Location string
}

func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Decide applies the capability matrix. actor is nil for anonymous requests;
// post is required for EditPost and DeletePost. next is the path the actor
// tried to reach and ends up in the login redirect.
func Decide(actor *models.User, action Action, post *models.Post, next string) Decision {
	if action == View {
		return Decision{Outcome: Allow}
	}
	if actor == nil {
		return Decision{Outcome: RedirectLogin, Location: LoginRedirect(next)}
	}

	switch action {
	case EditPost, DeletePost:
		if post == nil || !IsAuthor(actor, post) {
			loc := "/"
			if post != nil {
				loc = PostURL(post.ID)
			}
			return Decision{Outcome: RedirectDetail, Location: loc}
		}
	}
	return Decision{Outcome: Allow}
}

func IsAuthor(actor *models.User, post *models.Post) bool {
	return actor != nil && post != nil && actor.ID == post.AuthorID
}

func LoginRedirect(next string) string {
	if next == "" {
		return LoginURL
	}
	// Slashes stay readable: /auth/login/?next=/posts/1/comment/
	return LoginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

func PostURL(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func ProfileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// SafeNext returns next when it is a local path and fallback otherwise, so a
// login form cannot be used to bounce users to another host.
func SafeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return fallback
}
