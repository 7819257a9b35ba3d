package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/apierror"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/dto"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/middleware"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
)

type RegisterHandler struct{ svc service.RegisterService }

func NewRegisterHandler(svc service.RegisterService) *RegisterHandler {
	return &RegisterHandler{svc: svc}
}

// Open starts a new trading session with the given opening float.
func (h *RegisterHandler) Open(c *gin.Context) {
	var req dto.OpenRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Active returns the tenant's currently open register, 404 when none.
func (h *RegisterHandler) Active(c *gin.Context) {
	resp, err := h.svc.Active(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("No hay caja abierta"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LiveSummary returns the open register's figures, recomputed on demand.
func (h *RegisterHandler) LiveSummary(c *gin.Context) {
	resp, err := h.svc.LiveSummary(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CloseContext is step one of the closing workflow: tells the UI whether
// the count is blind and, only in visible mode, shows the expected figures.
func (h *RegisterHandler) CloseContext(c *gin.Context) {
	resp, err := h.svc.CloseContext(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close freezes the snapshot and reports the discrepancy classification.
func (h *RegisterHandler) Close(c *gin.Context) {
	var req dto.CloseRegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one register, including the frozen snapshot once closed.
func (h *RegisterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns a paginated list of closed registers.
func (h *RegisterHandler) History(c *gin.Context) {
	page, limit := pagination(c)
	regs, total, err := h.svc.History(c.Request.Context(), middleware.TenantID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": regs, "total": total, "page": page, "limit": limit})
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
