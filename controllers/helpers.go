package controllers

import (
	"net/http"

	"github.com/blossom2016/stripeConnect/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondText writes an application error as plain text. Server errors are
// logged with their cause; client errors only at debug level.
func respondText(c *gin.Context, logger *zap.Logger, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	} else {
		logger.Debug("Request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.String(status, apperrors.Message(err))
}
