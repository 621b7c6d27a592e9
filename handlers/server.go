package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"yatube/cache"
	"yatube/events"
	"yatube/feed"
	"yatube/graph"
	"yatube/media"
	"yatube/session"
	"yatube/store"
)

const defaultPageTTL = 20 * time.Second

// Deps are the collaborators a Server needs. Store and Sessions are required;
// the rest fall back to in-process defaults.
type Deps struct {
	Store       *store.Store
	Sessions    *session.Manager
	Media       media.Storage
	Pages       cache.Cache
	PageTTL     time.Duration
	Events      events.Publisher
	Graph       graph.Graph
	CORSOrigins []string
}

type Server struct {
	store    *store.Store
	feed     *feed.Feed
	sessions *session.Manager
	media    media.Storage
	pages    cache.Cache
	pageTTL  time.Duration
	events   events.Publisher
	graph    graph.Graph
	origins  []string
}

func NewServer(d Deps) *Server {
	s := &Server{
		store:    d.Store,
		feed:     feed.New(d.Store),
		sessions: d.Sessions,
		media:    d.Media,
		pages:    d.Pages,
		pageTTL:  d.PageTTL,
		events:   d.Events,
		graph:    d.Graph,
		origins:  d.CORSOrigins,
	}
	if s.media == nil {
		s.media = media.NewFilesystem("./static/uploads")
	}
	if s.pages == nil {
		s.pages = cache.NewMemory()
	}
	if s.pageTTL <= 0 {
		s.pageTTL = defaultPageTTL
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.graph == nil {
		s.graph = graph.Nop{}
	}
	return s
}

// Pages exposes the page cache so operators and tests can clear it.
func (s *Server) Pages() cache.Cache {
	return s.pages
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(tracing())
	r.Use(s.sessions.Middleware())
	r.MaxMultipartMemory = media.MaxUploadSize

	r.GET("/", s.Index)
	r.GET("/group/:slug/", s.GroupPosts)
	r.GET("/profile/:username/", s.Profile)
	r.GET("/profile/:username/follow/", s.ProfileFollow)
	r.GET("/profile/:username/unfollow/", s.ProfileUnfollow)
	r.GET("/posts/:id/", s.PostDetail)
	r.GET("/posts/:id/edit/", s.PostEdit)
	r.POST("/posts/:id/edit/", s.PostEdit)
	r.POST("/posts/:id/delete/", s.PostDelete)
	r.POST("/posts/:id/comment/", s.AddComment)
	r.GET("/create/", s.PostCreate)
	r.POST("/create/", s.PostCreate)
	r.GET("/follow/", s.FollowIndex)
	r.GET("/media/:id", s.Media)

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", s.Signup)
		auth.POST("/signup/", s.Signup)
		auth.GET("/login/", s.Login)
		auth.POST("/login/", s.Login)
		auth.GET("/logout/", s.Logout)
		auth.POST("/logout/", s.Logout)
	}

	about := r.Group("/about")
	{
		about.GET("/author/", s.AboutAuthor)
		about.GET("/tech/", s.AboutTech)
	}

	r.NoRoute(s.NotFound)
	return r
}
