package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/restaurant-user-service/internal/application"
	"github.com/oksasatya/restaurant-user-service/pkg/response"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	v, err := h.Svc.CreateUser(c.Request.Context(), req.toInput())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, v, "user created")
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, users, "users")
}

func (h *UserHandler) Get(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	v, found, err := h.Svc.GetUser(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Abort(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.OK(c, http.StatusOK, v, "user")
}

// SearchByName handles GET /users/search?name=
func (h *UserHandler) SearchByName(c *gin.Context) {
	users, err := h.Svc.SearchByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, users, "users")
}

// Directory handles GET /users/directory?q=&size= against the search index.
func (h *UserHandler) Directory(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Abort(c, http.StatusBadRequest, "invalid payload", gin.H{"size": "must be a number"})
			return
		}
		size = n
	}
	users, err := h.Svc.SearchDirectory(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.List(c, users, "users")
}

func (h *UserHandler) Update(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	v, err := h.Svc.UpdateUser(c.Request.Context(), p.ID, req.toInput())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, v, "user updated")
}

func (h *UserHandler) Delete(c *gin.Context) {
	var p idParam
	if err := c.ShouldBindUri(&p); err != nil {
		writeBindError(c, err)
		return
	}
	v, found, err := h.Svc.DeleteUser(c.Request.Context(), p.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !found {
		response.Abort(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.OK(c, http.StatusOK, v, "user deleted")
}
