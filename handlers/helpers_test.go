package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"yatube/cache"
	"yatube/database/dbtest"
	"yatube/events"
	"yatube/media"
	"yatube/models"
	"yatube/session"
	"yatube/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type env struct {
	t        *testing.T
	ctx      context.Context
	store    *store.Store
	sessions *session.Manager
	server   *Server
	router   *gin.Engine
	clock    *testClock
	events   *events.Recorder
	mediaDir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.New(dbtest.New(t))
	sessions := session.NewManager("test-secret", st)
	clk := &testClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rec := &events.Recorder{}
	mediaDir := t.TempDir()

	srv := NewServer(Deps{
		Store:    st,
		Sessions: sessions,
		Media:    media.NewFilesystem(mediaDir),
		Pages:    cache.NewMemoryWithClock(clk.now),
		PageTTL:  20 * time.Second,
		Events:   rec,
	})
	return &env{
		t:        t,
		ctx:      context.Background(),
		store:    st,
		sessions: sessions,
		server:   srv,
		router:   srv.Router(),
		clock:    clk,
		events:   rec,
		mediaDir: mediaDir,
	}
}

// storedImages lists the files in the media directory.
func (e *env) storedImages() []string {
	e.t.Helper()
	entries, err := os.ReadDir(e.mediaDir)
	require.NoError(e.t, err)
	names := make([]string, 0, len(entries))
	for _, d := range entries {
		names = append(names, d.Name())
	}
	return names
}

func (e *env) user(username string) *models.User {
	e.t.Helper()
	hash, err := session.HashPassword("password123")
	require.NoError(e.t, err)
	u := &models.User{Username: username, PasswordHash: hash}
	require.NoError(e.t, e.store.CreateUser(e.ctx, u))
	return u
}

func (e *env) group(slug string) *models.Group {
	e.t.Helper()
	g := &models.Group{Title: "Test group " + slug, Slug: slug, Description: "Test description"}
	require.NoError(e.t, e.store.CreateGroup(e.ctx, g))
	return g
}

func (e *env) post(author *models.User, g *models.Group, text string) *models.Post {
	e.t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if g != nil {
		p.GroupID = &g.ID
	}
	require.NoError(e.t, e.store.CreatePost(e.ctx, p))
	return p
}

// client issues requests as u, or anonymously when u is nil.
type client struct {
	e     *env
	token string
}

func (e *env) guest() *client { return &client{e: e} }

func (e *env) as(u *models.User) *client {
	e.t.Helper()
	token, err := e.sessions.Issue(u)
	require.NoError(e.t, err)
	return &client{e: e, token: token}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.token})
	}
	w := httptest.NewRecorder()
	c.e.router.ServeHTTP(w, req)
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) postMultipart(path string, fields map[string]string, fileField, fileName string, file []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(c.e.t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(c.e.t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(c.e.t, err)
	}
	require.NoError(c.e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}
