package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/pkg/response"
	"github.com/xxxsen/docindex/internal/service"
)

type SyncHandler struct {
	index *service.IndexService
}

func NewSyncHandler(index *service.IndexService) *SyncHandler {
	return &SyncHandler{index: index}
}

type syncRequest struct {
	Strategy string `json:"strategy"`
	Limit    int    `json:"limit"`
}

func (h *SyncHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("bad sync request: %w", appErr.ErrInvalid))
		return
	}
	report, err := h.index.Sync(c.Request.Context(), getUserID(c), model.SyncStrategy(req.Strategy), req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}

func (h *SyncHandler) Status(c *gin.Context) {
	status, err := h.index.Status(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, status)
}
