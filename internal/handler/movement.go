package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/apierror"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/middleware"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
)

type MovementHandler struct{ svc service.MovementService }

func NewMovementHandler(svc service.MovementService) *MovementHandler {
	return &MovementHandler{svc: svc}
}

// Record appends an ingreso/egreso against the open register.
func (h *MovementHandler) Record(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Record(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns a register's movements in insertion order.
func (h *MovementHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
