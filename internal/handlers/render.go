package handlers

import (
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/session"
)

// page is the data every template receives.
type page struct {
	Title       string
	Kind        models.Kind
	CurrentUser *session.Identity
	Flashes     []middleware.Flash
	CSRFField   template.HTML

	Entities []models.Entity
	Entity   *models.Entity
	Form     entityForm
	Username string
}

// entityForm echoes submitted values back into a re-rendered form.
type entityForm struct {
	Title       string
	Description string
	Date        string
}

// newPage collects the per-request fields and pops queued flashes. Extra
// notices are shown after the queued ones.
func newPage(c *gin.Context, kind models.Kind, title string, notices ...middleware.Flash) page {
	p := page{
		Title:     title,
		Kind:      kind,
		Flashes:   append(middleware.Flashes(c), notices...),
		CSRFField: csrf.TemplateField(c.Request),
	}
	if identity, ok := middleware.GetIdentity(c); ok {
		p.CurrentUser = &identity
	}
	return p
}

func render(c *gin.Context, status int, name string, p page) {
	c.HTML(status, name, p)
}

func danger(message string) middleware.Flash {
	return middleware.Flash{Category: middleware.FlashDanger, Message: message}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
