package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/pkg/response"
	"github.com/xxxsen/docindex/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		handleError(c, fmt.Errorf("query parameter q is required: %w", appErr.ErrInvalid))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := h.search.Search(c.Request.Context(), getUserID(c), query, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"query":   query,
		"results": results,
	})
}
