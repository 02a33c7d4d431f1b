package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRejectCrossSite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/delete/:id", RejectCrossSite(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		site   string
		status int
	}{
		{"cross site", "cross-site", http.StatusForbidden},
		{"same origin", "same-origin", http.StatusNoContent},
		{"typed url", "none", http.StatusNoContent},
		{"header missing", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/delete/1", nil)
			if tt.site != "" {
				req.Header.Set("Sec-Fetch-Site", tt.site)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLoginNotice(t *testing.T) {
	assert.Equal(t, "You must be logged in to add events.", LoginNotice("add", "events"))
	assert.Equal(t, "You must be logged in to delete teams.", LoginNotice("delete", "teams"))
}
