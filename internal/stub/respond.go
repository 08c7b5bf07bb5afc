package stub

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

// Error is a failure rendered as an envelope with the backend's error code.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func notFound(entity string, id int64) *Error {
	return &Error{
		Status:  fiber.StatusNotFound,
		Code:    entity + "_NOT_FOUND",
		Message: fmt.Sprintf("%s %d not found", strings.ToLower(entity), id),
	}
}

func invalid(field, msg string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Code: "VALIDATION_FAILED", Message: field + ": " + msg}
}

func conflict(code, msg string) *Error {
	return &Error{Status: fiber.StatusConflict, Code: code, Message: msg}
}

var (
	errInvalidCredentials = &Error{Status: fiber.StatusUnauthorized, Code: "INVALID_CREDENTIALS", Message: "이메일 또는 비밀번호가 올바르지 않습니다."}
	errExpiredToken       = &Error{Status: fiber.StatusUnauthorized, Code: "EXPIRED_TOKEN", Message: "refresh token is invalid or revoked"}
	errRateLimited        = &Error{Status: fiber.StatusTooManyRequests, Code: string(contract.CodeRateLimited), Message: constants.MessageRateLimited}
	errForbidden          = &Error{Status: fiber.StatusForbidden, Code: string(contract.CodeForbidden), Message: constants.MessageForbidden}
)

// classify maps a handler error onto a status and backend error code.
func classify(err error) (status int, code, msg string) {
	var se *Error
	var ve *contract.ValidationError
	var fe *fiber.Error
	switch {
	case errors.As(err, &se):
		return se.Status, se.Code, se.Message
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, "VALIDATION_FAILED", ve.Error()
	case errors.As(err, &fe):
		return fe.Code, string(contract.CodeForStatus(fe.Code)), fe.Message
	}
	return fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", constants.MessageError
}

// ErrorHandler renders every handler error as a failed envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("stub: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(contract.Fail(contract.ErrorCode(code), msg))
}

func ok[T any](c *fiber.Ctx, data T) error {
	return c.JSON(contract.OK(data, constants.MessageSuccess))
}

func created[T any](c *fiber.Ctx, data T, msg string) error {
	return c.Status(fiber.StatusCreated).JSON(contract.OK(data, msg))
}

// done acknowledges a mutation that has no payload.
func done(c *fiber.Ctx, msg string) error {
	return c.JSON(contract.ApiResponse[struct{}]{
		Success:   true,
		Message:   msg,
		Timestamp: contract.NewTimestamp(time.Now().UTC()),
	})
}

// bind parses the JSON body into v and validates it.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return invalid("body", err.Error())
	}
	return contract.Validate(v)
}

func idParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, invalid("id", "must be a positive integer")
	}
	return int64(id), nil
}
