package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"yatube/store"
	"yatube/telemetry"
)

// tracing opens one span per request, named after the matched route.
func tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = "not-found"
		}
		ctx, span := telemetry.Tracer().Start(c.Request.Context(), c.Request.Method+" "+name)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
	}
}

func render(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the dedicated 404 page.
func (s *Server) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, ErrorView{
		Status: http.StatusNotFound,
		Error:  "page not found",
		Path:   c.Request.URL.Path,
	})
}

const conflictMessage = "the request conflicts with existing data"

// fail maps store errors onto responses. Error details go to the log and
// the span, never to the client.
func (s *Server) fail(c *gin.Context, err error) {
	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)

	switch {
	case errors.Is(err, store.ErrNotFound):
		s.NotFound(c)
	case errors.Is(err, store.ErrConstraintViolation):
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		render(c, http.StatusBadRequest, ErrorView{Status: http.StatusBadRequest, Error: conflictMessage})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		span.SetStatus(codes.Error, err.Error())
		render(c, http.StatusInternalServerError, ErrorView{
			Status: http.StatusInternalServerError,
			Error:  "internal server error",
		})
	}
}
