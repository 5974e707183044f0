package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/audit"
	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
	loc  *time.Location
}

func NewAuditLogsHandler(logs AuditLogLister, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	if s := c.Query("provider_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_provider_id", "Invalid provider_id.")
			return
		}
		f.ProviderID = uint(id)
	}

	from, err := parseOptionalDate(c.Query("from"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	to, err := parseOptionalDate(c.Query("to"), h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Use YYYY-MM-DD.")
		return
	}
	f.From = from
	if to != nil {
		end := to.AddDate(0, 0, 1)
		f.To = &end
	}

	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if f.Page <= 0 {
		f.Page = 1
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	httpresp.Page(c, logs, total, f.Page, f.Limit)
}
