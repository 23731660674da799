/*
Package response renders every API response through one envelope.

HTTP status, numeric error code and error key come from pkg/errors; the
domain and application layers never see HTTP. Internal failures are
logged with their stack and answered with a generic message.

	success: { success: true, data: {...}, message, code, request_id }
	failure: { success: false, error: "CODE", message, code, error_code, error_key, request_id }
*/
package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"checkout/domain/shared"
	"checkout/pkg/errors"
	"checkout/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleBindError answers a request whose body or parameters failed binding.
func HandleBindError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, errors.CodeInvalidRequest, "")
	logger.FromContext(c.Request.Context()).Warn("Invalid request parameters",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))
	write(c, appErr)
}

// HandleAppError maps err onto the error taxonomy and writes it.
func HandleAppError(c *gin.Context, err error) {
	appErr := errors.FromDomainError(err)
	status := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", status),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error(appErr.Message, append(fields, zap.Strings("stack", extractStack(err)))...)
	} else {
		log.Warn(appErr.Message, fields...)
	}

	write(c, appErr)
}

// Abort writes appErr and stops the handler chain; used by middleware.
func Abort(c *gin.Context, appErr *errors.AppError) {
	write(c, appErr)
	c.Abort()
}

func write(c *gin.Context, appErr *errors.AppError) {
	errorCode := appErr.ErrorNumber()
	status := appErr.HTTPStatusCode()
	c.JSON(status, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Code:      status,
		ErrorCode: &errorCode,
		ErrorKey:  appErr.ErrorKey(),
		RequestID: getRequestID(c),
	})
}

func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}
