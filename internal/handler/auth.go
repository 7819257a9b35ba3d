package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/apierror"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
