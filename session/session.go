// Package session turns a signed token into the current user. The token
// travels in the session cookie or an Authorization: Bearer header.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"yatube/models"
)

const (
	CookieName = "sessionid"
	DefaultTTL = 14 * 24 * time.Hour
)

type contextKey string

const userKey contextKey = "user"

var ErrInvalidToken = errors.New("invalid or expired token")

type UserLookup interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
}

func NewManager(secret string, users UserLookup) *Manager {
	return &Manager{secret: []byte(secret), ttl: DefaultTTL, users: users}
}

func (m *Manager) Issue(u *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(u.ID), 10),
		"username": u.Username,
		"exp":      time.Now().Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the signature and expiry and returns the user id it carries.
func (m *Manager) Verify(tokenStr string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("could not parse claims: %w", ErrInvalidToken)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("subject claim not found: %w", ErrInvalidToken)
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("subject claim is not an id: %w", ErrInvalidToken)
	}
	return uint(id), nil
}

// Middleware resolves the token, if any, to a user and stores it on both the
// gin context and the request context. Requests without a valid token pass
// through as anonymous.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}
		id, err := m.Verify(tokenStr)
		if err != nil {
			c.Next()
			return
		}
		u, err := m.users.UserByID(c.Request.Context(), id)
		if err != nil {
			c.Next()
			return
		}
		c.Set(string(userKey), u)
		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), u))
		c.Next()
	}
}

// Login issues a token for u and sets it as the session cookie.
func (m *Manager) Login(c *gin.Context, u *models.User) (string, error) {
	token, err := m.Issue(u)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
	return token, nil
}

func (m *Manager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(string(userKey))
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if ck, err := r.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}
