package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/database"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/repository"
	"github.com/yukikurage/showcase/internal/services"
	"github.com/yukikurage/showcase/internal/session"
	"github.com/yukikurage/showcase/internal/storage"
	"github.com/yukikurage/showcase/internal/web"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	t        *testing.T
	db       *gorm.DB
	kind     models.Kind
	local    *storage.LocalStorage
	identity *services.IdentityService
	entities *services.EntityService
	router   *gin.Engine
	cookies  map[string]*http.Cookie
}

func setupHandlerTestEnv(t *testing.T, kind models.Kind) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db, kind))

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	logger := logging.Nop()
	identity := services.NewIdentityService(repository.NewUserRepository(db), bcrypt.MinCost)
	auth, err := services.NewAuthService(identity, session.NewMemoryStore(), time.Hour)
	require.NoError(t, err)
	attachments := services.NewAttachmentService(local, logger)
	entities := services.NewEntityService(repository.NewEntityRepository(db, kind), attachments, logger)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(middleware.LoadIdentity(auth))

	authHandler := NewAuthHandler(identity, auth, kind, logger)
	entityHandler := NewEntityHandler(entities, attachments, logger)
	apiHandler := NewAPIHandler(entities, identity, logger)
	requireAdd := middleware.RequireAuth(auth, middleware.LoginNotice("add", kind.Plural))
	requireEdit := middleware.RequireAuth(auth, middleware.LoginNotice("edit", kind.Plural))
	requireDelete := middleware.RequireAuth(auth, middleware.LoginNotice("delete", kind.Plural))

	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/", entityHandler.Index)
	r.GET("/uploads/:filename", entityHandler.Upload)
	r.GET("/add", requireAdd, entityHandler.AddForm)
	r.POST("/add", requireAdd, entityHandler.Add)
	r.GET("/edit/:id", requireEdit, entityHandler.EditForm)
	r.POST("/edit/:id", requireEdit, entityHandler.Edit)
	r.GET("/delete/:id", requireDelete, entityHandler.Delete)
	r.GET("/api/entities", apiHandler.ListEntities)
	r.GET("/api/entities/:id", apiHandler.GetEntity)
	r.GET("/api/auth/me", middleware.RequireAPIAuth(auth), apiHandler.CurrentUser)

	return &handlerTestEnv{
		t:        t,
		db:       db,
		kind:     kind,
		local:    local,
		identity: identity,
		entities: entities,
		router:   r,
		cookies:  map[string]*http.Cookie{},
	}
}

// serve sends req with the cookies collected so far and keeps the new ones.
func (e *handlerTestEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		e.cookies[c.Name] = c
	}
	return w
}

func (e *handlerTestEnv) get(path string) *httptest.ResponseRecorder {
	return e.serve(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *handlerTestEnv) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(req)
}

// postMultipart posts fields plus an optional image file.
func (e *handlerTestEnv) postMultipart(path string, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile(constants.FormFieldImage, filename)
		require.NoError(e.t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(req)
}

func (e *handlerTestEnv) login(username, password string) {
	_, err := e.identity.Register(services.RegisterInput{Username: username, Password: password})
	require.NoError(e.t, err)

	w := e.postForm("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(e.t, http.StatusFound, w.Code)
	require.Equal(e.t, "/", w.Header().Get("Location"))
}

func (e *handlerTestEnv) count() int64 {
	var n int64
	require.NoError(e.t, e.db.Table(e.kind.Table).Count(&n).Error)
	return n
}
