package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type UserHandlersParams struct {
	fx.In

	UserService *biz.UserService
}

func NewUserHandlers(params UserHandlersParams) *UserHandlers {
	return &UserHandlers{
		UserService: params.UserService,
	}
}

type UserHandlers struct {
	UserService *biz.UserService
}

func (h *UserHandlers) CreateUser(c *gin.Context) {
	var req biz.CreateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	user, err := h.UserService.CreateUser(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(toUserInfo(user)))
}

func (h *UserHandlers) ListUsers(c *gin.Context) {
	users, err := h.UserService.ListUsers(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	infos := make([]objects.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, toUserInfo(user))
	}

	c.JSON(http.StatusOK, objects.OK(infos))
}

func (h *UserHandlers) GetUser(c *gin.Context) {
	user, err := h.UserService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(toUserInfo(user)))
}

func (h *UserHandlers) UpdateUser(c *gin.Context) {
	var req biz.UpdateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	user, err := h.UserService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(toUserInfo(user)))
}

func (h *UserHandlers) DeleteUser(c *gin.Context) {
	if err := h.UserService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("user deleted", nil))
}
