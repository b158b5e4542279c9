package handlers

import (
	"strconv"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/provider"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler is the dashboard API handler entrypoint.
type Handler struct {
	*provider.Container
}

// New creates the handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError writes the registry entry for code and logs the cause.
func respondError(c *gin.Context, statusCode int, code errcode.Code, err error) {
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"status_code", statusCode,
			"code", string(code),
			"error", err,
		)
	}
	response.ErrorCode(c, statusCode, code, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// parseIDParam reads the :id path segment as a uint.
func parseIDParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return 0, false
	}
	return uint(id), true
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}
