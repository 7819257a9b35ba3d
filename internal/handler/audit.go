package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IngCristianAraya/bodegapp-sub000/internal/middleware"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/service"
	"github.com/IngCristianAraya/bodegapp-sub000/internal/worker"
)

type AuditHandler struct {
	svc        service.AuditService
	dispatcher *worker.Dispatcher
}

func NewAuditHandler(svc service.AuditService, dispatcher *worker.Dispatcher) *AuditHandler {
	return &AuditHandler{svc: svc, dispatcher: dispatcher}
}

// Run executes a synchronous audit pass over the tenant's closed registers
// and returns the correction report.
func (h *AuditHandler) Run(c *gin.Context) {
	resp, err := h.svc.Run(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Enqueue schedules the same pass as a background job so long histories do
// not hold an HTTP request open; results land in the audit records.
func (h *AuditHandler) Enqueue(c *gin.Context) {
	if err := h.dispatcher.EnqueueAudit(c.Request.Context(), worker.AuditJob{
		TenantID: middleware.TenantID(c).String(),
	}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

// Records lists past audit outcomes for operator review.
func (h *AuditHandler) Records(c *gin.Context) {
	page, limit := pagination(c)
	recs, total, err := h.svc.Records(c.Request.Context(), middleware.TenantID(c), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs, "total": total, "page": page, "limit": limit})
}
