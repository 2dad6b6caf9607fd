package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"yatube/internal/form"
	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// formPayload is what the create and edit pages render.
type formPayload struct {
	Values form.PostData `json:"values"`
	Errors form.Errors   `json:"errors"`
	Groups []model.Group `json:"groups"`
	IsEdit bool          `json:"is_edit"`
	PostID uint64        `json:"post_id,omitempty"`
}

func detailPath(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func profilePath(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// Index lists every post, newest first.
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.svc.Index(c.Request.Context(), c.Query("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page})
}

func (h *PostHandler) GroupPosts(c *gin.Context) {
	listing, err := h.svc.GroupPosts(c.Request.Context(), c.Param("slug"), c.Query("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *PostHandler) Profile(c *gin.Context) {
	listing, err := h.svc.Profile(c.Request.Context(), c.Param("username"), c.Query("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), middleware.IdentityFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateForm returns an empty form with the available groups.
func (h *PostHandler) CreateForm(c *gin.Context) {
	f, err := h.svc.NewForm(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	h.renderForm(c, http.StatusOK, f, false, 0)
}

func (h *PostHandler) Create(c *gin.Context) {
	id := middleware.IdentityFrom(c)

	var data form.PostData
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	_, f, err := h.svc.Create(c.Request.Context(), id, data)
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, profilePath(id.Username))
	case errors.Is(err, service.ErrValidation):
		h.renderForm(c, http.StatusBadRequest, f, false, 0)
	default:
		respondError(c, err)
	}
}

// EditForm returns the form pre-filled from the post. Anyone but the author
// is sent back to the post.
func (h *PostHandler) EditForm(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	_, f, err := h.svc.EditForm(c.Request.Context(), middleware.IdentityFrom(c), postID)
	switch {
	case err == nil:
		h.renderForm(c, http.StatusOK, f, true, postID)
	case errors.Is(err, service.ErrForbidden):
		c.Redirect(http.StatusFound, detailPath(postID))
	default:
		respondError(c, err)
	}
}

func (h *PostHandler) Edit(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var data form.PostData
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	_, f, err := h.svc.Update(c.Request.Context(), middleware.IdentityFrom(c), postID, data)
	switch {
	case err == nil, errors.Is(err, service.ErrForbidden):
		c.Redirect(http.StatusFound, detailPath(postID))
	case errors.Is(err, service.ErrValidation):
		h.renderForm(c, http.StatusBadRequest, f, true, postID)
	default:
		respondError(c, err)
	}
}

func (h *PostHandler) renderForm(c *gin.Context, status int, f *form.PostForm, isEdit bool, postID uint64) {
	groups, err := h.svc.Groups(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, formPayload{
		Values: f.Data,
		Errors: f.Errors,
		Groups: groups,
		IsEdit: isEdit,
		PostID: postID,
	})
}
