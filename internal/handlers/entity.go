package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/middleware"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/services"
)

var errUnreadableImage = errors.New("uploaded image could not be read")

// EntityHandler serves the listing and the add, edit and delete pages.
type EntityHandler struct {
	entities    *services.EntityService
	attachments *services.AttachmentService
	kind        models.Kind
	logger      logging.Logger
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entities *services.EntityService, attachments *services.AttachmentService, logger logging.Logger) *EntityHandler {
	return &EntityHandler{
		entities:    entities,
		attachments: attachments,
		kind:        entities.Kind(),
		logger:      logger,
	}
}

// Index renders every entity in listing order.
func (h *EntityHandler) Index(c *gin.Context) {
	entities, err := h.entities.List()
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to list entities", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load %s", h.kind.Plural)
		return
	}

	p := newPage(c, h.kind, capitalize(h.kind.Plural))
	p.Entities = entities
	render(c, http.StatusOK, "index.html", p)
}

// AddForm renders an empty form.
func (h *EntityHandler) AddForm(c *gin.Context) {
	render(c, http.StatusOK, "add.html", newPage(c, h.kind, "Add "+h.kind.Name))
}

// Add creates an entity from the submitted form.
func (h *EntityHandler) Add(c *gin.Context) {
	input, form, cleanup, err := h.bindInput(c)
	if err != nil {
		p := newPage(c, h.kind, "Add "+h.kind.Name, danger(validationMessage(err)))
		p.Form = form
		render(c, http.StatusUnprocessableEntity, "add.html", p)
		return
	}
	defer cleanup()

	if _, err := h.entities.Create(c.Request.Context(), input); err != nil {
		if errors.Is(err, services.ErrValidation) {
			p := newPage(c, h.kind, "Add "+h.kind.Name, danger(validationMessage(err)))
			p.Form = form
			render(c, http.StatusUnprocessableEntity, "add.html", p)
			return
		}
		h.failWrite(c, "add", err)
		return
	}

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("%s added successfully!", capitalize(h.kind.Name)))
	c.Redirect(http.StatusFound, "/")
}

// EditForm renders the form pre-filled with the stored entity.
func (h *EntityHandler) EditForm(c *gin.Context) {
	entity, ok := h.loadEntity(c)
	if !ok {
		return
	}

	p := newPage(c, h.kind, "Edit "+h.kind.Name)
	p.Entity = entity
	p.Form = entityForm{
		Title:       entity.Title,
		Description: entity.Description,
	}
	if entity.Date != nil {
		p.Form.Date = entity.Date.Format(constants.DateLayout)
	}
	render(c, http.StatusOK, "edit.html", p)
}

// Edit replaces the entity's fields, and its image when a new one is sent.
func (h *EntityHandler) Edit(c *gin.Context) {
	entity, ok := h.loadEntity(c)
	if !ok {
		return
	}

	input, form, cleanup, err := h.bindInput(c)
	if err != nil {
		p := newPage(c, h.kind, "Edit "+h.kind.Name, danger(validationMessage(err)))
		p.Entity = entity
		p.Form = form
		render(c, http.StatusUnprocessableEntity, "edit.html", p)
		return
	}
	defer cleanup()

	if _, err := h.entities.Update(c.Request.Context(), entity.ID, input); err != nil {
		switch {
		case errors.Is(err, services.ErrEntityNotFound):
			h.notFound(c)
		case errors.Is(err, services.ErrValidation):
			p := newPage(c, h.kind, "Edit "+h.kind.Name, danger(validationMessage(err)))
			p.Entity = entity
			p.Form = form
			render(c, http.StatusUnprocessableEntity, "edit.html", p)
		default:
			h.failWrite(c, "update", err)
		}
		return
	}

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("%s updated successfully!", capitalize(h.kind.Name)))
	c.Redirect(http.StatusFound, "/")
}

// Delete removes the entity and its image.
func (h *EntityHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.entities.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			h.notFound(c)
			return
		}
		h.failWrite(c, "delete", err)
		return
	}

	middleware.AddFlash(c, middleware.FlashSuccess, fmt.Sprintf("%s deleted successfully!", capitalize(h.kind.Name)))
	c.Redirect(http.StatusFound, "/")
}

// Upload streams a stored image.
func (h *EntityHandler) Upload(c *gin.Context) {
	name := c.Param("filename")

	rc, err := h.attachments.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, services.ErrAttachmentNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.logger.Error(c.Request.Context(), "failed to open attachment", "filename", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"X-Content-Type-Options": "nosniff",
	})
}

// bindInput reads the form. The returned cleanup closes the uploaded file.
func (h *EntityHandler) bindInput(c *gin.Context) (services.EntityInput, entityForm, func(), error) {
	form := entityForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Date:        c.PostForm("date"),
	}
	input := services.EntityInput{
		Title:       form.Title,
		Description: form.Description,
		Date:        form.Date,
	}
	cleanup := func() {}

	fh, err := c.FormFile(constants.FormFieldImage)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return input, form, cleanup, nil
	default:
		return input, form, cleanup, errUnreadableImage
	}

	file, err := fh.Open()
	if err != nil {
		return input, form, cleanup, errUnreadableImage
	}
	input.Image = &services.Upload{
		Filename: fh.Filename,
		Content:  file,
		Size:     fh.Size,
	}
	return input, form, func() { _ = file.Close() }, nil
}

func (h *EntityHandler) parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

func (h *EntityHandler) loadEntity(c *gin.Context) (*models.Entity, bool) {
	id, ok := h.parseID(c)
	if !ok {
		return nil, false
	}

	entity, err := h.entities.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			h.notFound(c)
			return nil, false
		}
		h.logger.Error(c.Request.Context(), "failed to load entity", "id", id, "error", err)
		c.String(http.StatusInternalServerError, "Failed to load %s", h.kind.Name)
		return nil, false
	}
	return entity, true
}

func (h *EntityHandler) notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "not_found.html", newPage(c, h.kind, "Not found"))
}

// failWrite reports a storage or persistence failure on the listing page.
func (h *EntityHandler) failWrite(c *gin.Context, action string, err error) {
	h.logger.Error(c.Request.Context(), "entity write failed", "action", action, "error", err)

	message := fmt.Sprintf("Could not %s the %s, please try again.", action, h.kind.Name)
	if errors.Is(err, services.ErrStorageFailure) {
		message = fmt.Sprintf("Could not save the image, the %s was not changed.", h.kind.Name)
	}
	middleware.AddFlash(c, middleware.FlashDanger, message)
	c.Redirect(http.StatusFound, "/")
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		return "Title is required."
	case errors.Is(err, services.ErrDescriptionRequired):
		return "Description is required."
	case errors.Is(err, services.ErrInvalidDateFormat):
		return "Date must be a valid date in YYYY-MM-DD format."
	case errors.Is(err, errUnreadableImage):
		return "The uploaded image could not be read."
	case errors.Is(err, services.ErrInvalidFilename):
		return "The image file name is not usable."
	default:
		return "Please check the form and try again."
	}
}
