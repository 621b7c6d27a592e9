package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) AboutAuthor(c *gin.Context) {
	render(c, http.StatusOK, MessageView{
		Title:   "About the author",
		Message: "Yatube is a small blogging platform: posts, groups, comments and subscriptions.",
	})
}

func (s *Server) AboutTech(c *gin.Context) {
	render(c, http.StatusOK, MessageView{
		Title:   "Technologies",
		Message: "Go, gin, gorm on PostgreSQL, JWT sessions, optional Redis, MongoDB GridFS, NATS and Neo4j.",
	})
}
