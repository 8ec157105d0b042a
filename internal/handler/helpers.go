package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/docindex/internal/ai"
	"github.com/xxxsen/docindex/internal/middleware"
	"github.com/xxxsen/docindex/internal/pkg/errcode"
	appErr "github.com/xxxsen/docindex/internal/pkg/errors"
	"github.com/xxxsen/docindex/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
	).Error("request failed", zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrProviderUnavailable, "embedding provider unavailable")
	case errors.Is(err, appErr.ErrEmbeddingUnavailable):
		response.Error(c, errcode.ErrEmbeddingUnavailable, "query embedding unavailable")
	case errors.Is(err, appErr.ErrInsufficientData):
		response.Error(c, errcode.ErrInsufficientData, err.Error())
	case errors.Is(err, appErr.ErrUnsupportedFormat):
		response.Error(c, errcode.ErrUnsupportedFormat, "unsupported file format")
	case errors.Is(err, appErr.ErrBusy):
		response.Error(c, errcode.ErrBusy, "operation in progress")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
