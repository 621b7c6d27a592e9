package handlers

import (
	"time"

	"yatube/access"
	"yatube/feed"
	"yatube/graph"
	"yatube/media"
	"yatube/models"
)

// The structs below are what each page shows. Handlers fill them in and the
// renderer serialises them; nothing in here knows about HTTP.

type AuthorView struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	URL      string `json:"url"`
}

type GroupView struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

type PostView struct {
	ID      uint       `json:"id"`
	Text    string     `json:"text"`
	PubDate time.Time  `json:"pubDate"`
	Author  AuthorView `json:"author"`
	Group   *GroupView `json:"group,omitempty"`
	Image   string     `json:"image,omitempty"`
	URL     string     `json:"url"`
}

type CommentView struct {
	ID      uint       `json:"id"`
	Author  AuthorView `json:"author"`
	Text    string     `json:"text"`
	Created time.Time  `json:"created"`
}

type PageView struct {
	Number      int        `json:"number"`
	NumPages    int        `json:"numPages"`
	Count       int64      `json:"count"`
	HasNext     bool       `json:"hasNext"`
	HasPrevious bool       `json:"hasPrevious"`
	Posts       []PostView `json:"posts"`
}

type IndexView struct {
	Title string   `json:"title"`
	Page  PageView `json:"page"`
}

type GroupPageView struct {
	Group GroupView `json:"group"`
	Page  PageView  `json:"page"`
}

type ProfileView struct {
	Author          AuthorView             `json:"author"`
	PostsCount      int64                  `json:"postsCount"`
	Followers       int64                  `json:"followers"`
	FollowingCount  int64                  `json:"followingCount"`
	Following       bool                   `json:"following"`
	CanFollow       bool                   `json:"canFollow"`
	Recommendations []graph.Recommendation `json:"recommendations,omitempty"`
	Page            PageView               `json:"page"`
}

type PostDetailView struct {
	Post             PostView      `json:"post"`
	AuthorPostsCount int64         `json:"authorPostsCount"`
	Comments         []CommentView `json:"comments"`
	CanEdit          bool          `json:"canEdit"`
}

type PostFormView struct {
	IsEdit bool              `json:"isEdit"`
	PostID uint              `json:"postId,omitempty"`
	Text   string            `json:"text"`
	Group  string            `json:"group"`
	Groups []GroupView       `json:"groups"`
	Errors map[string]string `json:"errors,omitempty"`
}

type AuthFormView struct {
	Username string            `json:"username"`
	Next     string            `json:"next,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

type MessageView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type ErrorView struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Path   string `json:"path,omitempty"`
}

func authorView(u models.User) AuthorView {
	return AuthorView{Username: u.Username, FullName: u.FullName(), URL: access.ProfileURL(u.Username)}
}

func groupView(g models.Group) GroupView {
	return GroupView{Title: g.Title, Slug: g.Slug, Description: g.Description, URL: "/group/" + g.Slug + "/"}
}

func postView(p models.Post) PostView {
	v := PostView{
		ID:      p.ID,
		Text:    p.Text,
		PubDate: p.PubDate,
		Author:  authorView(p.Author),
		Image:   media.URL(p.Image),
		URL:     access.PostURL(p.ID),
	}
	if p.Group != nil {
		g := groupView(*p.Group)
		v.Group = &g
	}
	return v
}

func commentViews(comments []models.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentView{ID: c.ID, Author: authorView(c.Author), Text: c.Text, Created: c.Created})
	}
	return out
}

func groupViews(groups []models.Group) []GroupView {
	out := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupView(g))
	}
	return out
}

func pageView(p feed.Page) PageView {
	posts := make([]PostView, 0, len(p.Posts))
	for _, post := range p.Posts {
		posts = append(posts, postView(post))
	}
	return PageView{
		Number:      p.Number,
		NumPages:    p.NumPages,
		Count:       p.Count,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
		Posts:       posts,
	}
}
