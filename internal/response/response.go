// Package response writes the JSON envelope every handler answers with and
// maps domain errors to HTTP status codes.
package response

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/logger"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Codes let clients tell apart failures that share a status, such as a
// missing image directory and an empty one.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeDirectoryNotFound = "directory_not_found"
	CodeDirectoryEmpty    = "directory_empty"
	CodeReferentialGap    = "referential_gap"
	CodeMirror            = "mirror_inconsistency"
	CodeNoResults         = "no_results"
	CodeNoTrending        = "no_trending"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeInternal          = "internal_error"
)

type Response struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Signal answers 200 with a code and no data, for outcomes that are
// neither results nor failures.
func Signal(c *gin.Context, code, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Code:    code,
		Message: message,
	})
}

func Error(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, Response{
		Status:  "fail",
		Code:    code,
		Message: message,
	})
}

// Status maps an error to its HTTP status and response code. Errors that
// match no sentinel are upstream failures.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, apperror.ErrMirrorInconsistency):
		return http.StatusInternalServerError, CodeMirror
	case errors.Is(err, apperror.ErrReferentialGap):
		return http.StatusNotFound, CodeReferentialGap
	case errors.Is(err, apperror.ErrDirectoryNotFound):
		return http.StatusNotFound, CodeDirectoryNotFound
	case errors.Is(err, apperror.ErrDirectoryEmpty):
		return http.StatusNotFound, CodeDirectoryEmpty
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, apperror.ErrNoResults):
		return http.StatusNotFound, CodeNoResults
	case errors.Is(err, apperror.ErrNoTrending):
		return http.StatusNotFound, CodeNoTrending
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// FromError answers with the mapped status. Internal errors are logged and
// their text withheld from the client.
func FromError(c *gin.Context, log logger.ZapLogger, op string, err error) {
	status, code := Status(err)
	message := err.Error()
	if code == CodeInternal {
		log.Error("request failed", zap.String("operation", op), zap.Error(err))
		message = "internal server error"
	} else {
		log.Warn("request rejected", zap.String("operation", op), zap.String("code", code), zap.Error(err))
	}
	Error(c, status, code, message)
}

// WriteData is the body of a successful write. MirrorWarnings lists mirror
// failures that did not fail the request.
type WriteData struct {
	ID             string   `json:"id"`
	Deleted        bool     `json:"deleted,omitempty"`
	MirrorWarnings []string `json:"mirrorWarnings,omitempty"`
}

func Written(c *gin.Context, statusCode int, message string, result *model.WriteResult) {
	data := WriteData{ID: result.ID, Deleted: result.Deleted}
	for _, err := range result.MirrorErrs {
		data.MirrorWarnings = append(data.MirrorWarnings, err.Error())
	}
	Success(c, statusCode, message, data)
}
