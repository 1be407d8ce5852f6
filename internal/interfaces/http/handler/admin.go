package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/yoquet/backend/internal/application/catalog"
	appmedia "github.com/yoquet/backend/internal/application/media"
)

// AdminHandler serves the staff-only maintenance endpoints: the
// pending-product queue, bulk pricing, media repair and catalog export.
type AdminHandler struct {
	BaseHandler
	products *appcatalog.ProductService
	export   *appcatalog.ExportService
	sync     *appmedia.SyncService
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(
	products *appcatalog.ProductService,
	export *appcatalog.ExportService,
	sync *appmedia.SyncService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		products:    products,
		export:      export,
		sync:        sync,
	}
}

// RegisterRoutes registers admin routes on the staff group
func (h *AdminHandler) RegisterRoutes(staff *gin.RouterGroup) {
	staff.GET("/admin/products/pending", h.ListPending)
	staff.PUT("/admin/products/batch", h.BatchUpdate)
	staff.POST("/admin/media/repair", h.RepairMedia)
	staff.POST("/admin/catalog/export", h.ExportCatalog)
}

// ListPending returns products still awaiting a price
func (h *AdminHandler) ListPending(c *gin.Context) {
	dtos, err := h.products.ListPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, dtos)
}

// BatchUpdate applies partial updates to pending products in bulk
func (h *AdminHandler) BatchUpdate(c *gin.Context) {
	var req appcatalog.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	result, err := h.products.BatchUpdate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, result)
}

// RepairMedia runs the image-reference repair pass. With apply=true the
// rewrites are persisted, otherwise the report shows what would change.
func (h *AdminHandler) RepairMedia(c *gin.Context) {
	apply := c.Query("apply") == "true"
	verify := c.Query("verify") == "true"

	report, err := h.sync.Repair(c.Request.Context(), apply, verify)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, report)
}

// ExportCatalog dumps the catalog to object storage
func (h *AdminHandler) ExportCatalog(c *gin.Context) {
	result, err := h.export.Export(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, result)
}
