package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// HTTPError carries the status code an error should be reported with.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) error {
	return &HTTPError{Code: fiber.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) error {
	return &HTTPError{Code: fiber.StatusNotFound, Message: message}
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and turns failures into a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewBadRequestError(err.Error())
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return NewBadRequestError(strings.Join(messages, "; "))
}

// ErrorHandlerMiddleware converts errors returned by downstream handlers into
// the standard JSON error response.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var httpErr *HTTPError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
