package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string  `validate:"required"`
	Time float64 `validate:"gte=0"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Name: "alice", Time: 1}))

	err := ValidateRequest(sampleRequest{Time: -1})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, fiber.StatusBadRequest, httpErr.Code)
	assert.Contains(t, httpErr.Message, "Name")
	assert.Contains(t, httpErr.Message, "Time")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error { return NewNotFoundError("no such thing") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.ErrUpgradeRequired })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.JSON(SuccessResponse("fine", 1)) })

	tests := []struct {
		path    string
		code    int
		success bool
		message string
	}{
		{"/missing", fiber.StatusNotFound, false, "no such thing"},
		{"/boom", fiber.StatusInternalServerError, false, "boom"},
		{"/fiber", fiber.StatusUpgradeRequired, false, "Upgrade Required"},
		{"/ok", fiber.StatusOK, true, "fine"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var out Response[any]
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.success, out.Success)
			assert.Equal(t, tt.message, out.Message)
		})
	}
}
