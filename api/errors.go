package api

import (
	"errors"
	"strconv"

	"github.com/Domenick1991/cargoquote/internal/apperr"
	"github.com/Domenick1991/cargoquote/internal/logger"
	"github.com/gin-gonic/gin"
)

const loggerKey = "logger"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func loggerFrom(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Nop()
}

// writeError maps err onto its HTTP status and public envelope. Untyped errors
// become INTERNAL_ERROR and never leak their text.
func writeError(c *gin.Context, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}
	meta := apperr.MetadataFor(typed.Code())

	body := errorBody{Code: string(typed.Code()), Message: meta.PublicMessage}
	switch typed.Code() {
	case apperr.CodeValidation, apperr.CodeUnauthorized, apperr.CodeNotFound, apperr.CodeConflict, apperr.CodeStateConflict:
		if m := typed.Message(); m != "" {
			body.Message = m
		}
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if meta.HTTPStatus >= 500 {
		loggerFrom(c).Error(c.Request.Context(), "request failed", err, map[string]any{"code": body.Code, "path": c.FullPath()})
	} else {
		loggerFrom(c).Debug(c.Request.Context(), "request rejected", map[string]any{"code": body.Code, "error": err.Error()})
	}
	c.AbortWithStatusJSON(meta.HTTPStatus, errorResponse{Error: body})
}

func bindError(err error) error {
	return apperr.Wrap(apperr.CodeValidation, err, "malformed request body")
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.CodeValidation, "invalid id").
			WithDetails(map[string]string{"id": "must be a positive integer"})
	}
	return id, nil
}
