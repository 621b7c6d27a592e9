package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yatube/access"
	"yatube/models"
	"yatube/session"
	"yatube/store"
)

const minPasswordLen = 8

func (s *Server) Signup(c *gin.Context) {
	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, AuthFormView{})
		return
	}

	form := AuthFormView{Username: strings.TrimSpace(c.PostForm("username")), Errors: map[string]string{}}
	password := c.PostForm("password")
	if form.Username == "" {
		form.Errors["username"] = "This field is required."
	}
	if len(password) < minPasswordLen {
		form.Errors["password"] = "This password is too short."
	}
	if len(form.Errors) > 0 {
		render(c, http.StatusBadRequest, form)
		return
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		s.fail(c, err)
		return
	}
	user := &models.User{
		Username:     form.Username,
		FirstName:    strings.TrimSpace(c.PostForm("first_name")),
		LastName:     strings.TrimSpace(c.PostForm("last_name")),
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrConstraintViolation) {
			form.Errors["username"] = "A user with that username already exists."
			render(c, http.StatusBadRequest, form)
			return
		}
		s.fail(c, err)
		return
	}
	if _, err := s.sessions.Login(c, user); err != nil {
		s.fail(c, err)
		return
	}
	redirect(c, "/")
}

func (s *Server) Login(c *gin.Context) {
	next := access.SafeNext(c.Query("next"), "")
	if c.Request.Method == http.MethodGet {
		render(c, http.StatusOK, AuthFormView{Next: next})
		return
	}

	if v := c.PostForm("next"); v != "" {
		next = access.SafeNext(v, "")
	}
	form := AuthFormView{Username: strings.TrimSpace(c.PostForm("username")), Next: next}
	user, err := s.store.UserByUsername(c.Request.Context(), form.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.fail(c, err)
		return
	}
	if user == nil || !session.CheckPassword(user.PasswordHash, c.PostForm("password")) {
		form.Errors = map[string]string{"form": "Please enter a correct username and password."}
		render(c, http.StatusBadRequest, form)
		return
	}
	if _, err := s.sessions.Login(c, user); err != nil {
		s.fail(c, err)
		return
	}
	redirect(c, access.SafeNext(next, "/"))
}

func (s *Server) Logout(c *gin.Context) {
	s.sessions.Logout(c)
	render(c, http.StatusOK, MessageView{Title: "Logged out", Message: "You have been logged out."})
}
