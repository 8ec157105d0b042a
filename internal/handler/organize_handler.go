package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/docindex/internal/model"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/pkg/response"
	"github.com/xxxsen/docindex/internal/service"
)

type OrganizeHandler struct {
	organize *service.OrganizeService
}

func NewOrganizeHandler(organize *service.OrganizeService) *OrganizeHandler {
	return &OrganizeHandler{organize: organize}
}

type analyzeRequest struct {
	Method         string `json:"method"`
	MaxClusters    int    `json:"max_clusters"`
	MinClusterSize int    `json:"min_cluster_size"`
}

func (h *OrganizeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("bad analyze request: %w", appErr.ErrInvalid))
		return
	}
	clusters, err := h.organize.Analyze(c.Request.Context(), getUserID(c), req.Method, req.MaxClusters, req.MinClusterSize)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"clusters": clusters,
		"total":    len(clusters),
	})
}

type executeRequest struct {
	Cluster model.Cluster `json:"cluster"`
}

func (h *OrganizeHandler) Execute(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, fmt.Errorf("bad execute request: %w", appErr.ErrInvalid))
		return
	}
	record, err := h.organize.Execute(c.Request.Context(), getUserID(c), req.Cluster)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, record)
}
