package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/service"
)

const (
	uniqueViolation   = "23505"
	invalidTextFormat = "22P02" // e.g. a malformed uuid in a path id
	stackKey          = "panic_stack"
)

var kindStatus = map[service.Kind]int{
	service.KindValidation:   http.StatusBadRequest,
	service.KindConflict:     http.StatusBadRequest,
	service.KindNotFound:     http.StatusNotFound,
	service.KindUnauthorized: http.StatusUnauthorized,
	service.KindForbidden:    http.StatusForbidden,
}

// ErrorHandler turns the last error recorded with c.Error into the
// response envelope. Handlers record the error and return without writing.
func ErrorHandler(production bool, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := Classify(err)

		body := dto.Envelope{Success: false, Message: message}
		if status >= http.StatusInternalServerError {
			logger.Error("request_failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			if !production {
				if stack, ok := c.Get(stackKey); ok {
					body.Stack, _ = stack.(string)
				}
			}
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery converts a panic into a 500 handled by ErrorHandler, keeping
// the stack for non-production responses.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		c.Set(stackKey, string(debug.Stack()))
		_ = c.Error(fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.Envelope{
		Success: false,
		Message: fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path),
	})
}

// Classify maps an error to its HTTP status and client message.
func Classify(err error) (int, string) {
	var domainErr *service.Error
	if errors.As(err, &domainErr) {
		if status, ok := kindStatus[domainErr.Kind]; ok {
			return status, domainErr.Msg
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "resource not found"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return http.StatusBadRequest, duplicateField(pgErr) + " already exists"
		case invalidTextFormat:
			return http.StatusNotFound, "resource not found"
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusBadRequest, "value already exists"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return http.StatusBadRequest, strings.Join(msgs, ", ")
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "request body is required"
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, "malformed JSON body"
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type)
	}

	return http.StatusInternalServerError, err.Error()
}

// duplicateField reads the column from a detail like
// `Key (email)=(a@b.com) already exists.`
func duplicateField(pgErr *pgconn.PgError) string {
	if _, rest, ok := strings.Cut(pgErr.Detail, "Key ("); ok {
		if field, _, ok := strings.Cut(rest, ")="); ok {
			return field
		}
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "value"
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "username":
		return field + " may only contain letters, digits and underscores"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
