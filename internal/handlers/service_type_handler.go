package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

type ServiceTypeLister interface {
	ListActive(ctx context.Context) ([]models.ServiceType, error)
}

type ServiceTypeHandler struct {
	catalog ServiceTypeLister
}

func NewServiceTypeHandler(catalog ServiceTypeLister) *ServiceTypeHandler {
	return &ServiceTypeHandler{catalog: catalog}
}

func (h *ServiceTypeHandler) List(c *gin.Context) {
	list, err := h.catalog.ListActive(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "service_types_failed", "Failed to list service types.")
		return
	}
	if list == nil {
		list = []models.ServiceType{}
	}
	httpresp.List(c, list)
}
