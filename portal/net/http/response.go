package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/sayjeyhi/loc-mp-v2-sub000/portal"
)

// ErrorResponse is the error body of every portal HTTP endpoint.
type ErrorResponse struct {
	// HTTP status code
	Code int `json:"code"`
	// Error type identifier
	Title string `json:"title"`
	// Human-readable error message
	Message string `json:"message"`
	// Business error code, when the error maps to one
	BusinessCode string `json:"businessCode,omitempty"`
}

// Error allows ErrorResponse to satisfy the error interface.
func (e ErrorResponse) Error() string {
	return e.Message
}

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusOK).JSON(s)
}

// Created sends an HTTP 201 Created response with a custom body.
func Created(c *fiber.Ctx, s any) error {
	return c.Status(http.StatusCreated).JSON(s)
}

// NoContent sends an HTTP 204 No Content response.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// JSONResponse sends a custom status code and body as a JSON response.
func JSONResponse(c *fiber.Ctx, status int, s any) error {
	return c.Status(status).JSON(s)
}

// RespondError writes an ErrorResponse.
func RespondError(c *fiber.Ctx, status int, title, message string) error {
	return JSONResponse(c, status, ErrorResponse{Code: status, Title: title, Message: message})
}

// BusinessError writes a portal.Response with the given status.
func BusinessError(c *fiber.Ctx, status int, title string, resp portal.Response) error {
	return JSONResponse(c, status, ErrorResponse{
		Code:         status,
		Title:        title,
		Message:      resp.Message,
		BusinessCode: resp.Code,
	})
}

// RenderError writes err through the ErrorResponse contract. Unknown errors
// become a generic 500 so internals never leak.
func RenderError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var resp ErrorResponse
	if errors.As(err, &resp) {
		status := http.StatusInternalServerError
		if resp.Code >= http.StatusContinue && resp.Code <= 599 {
			status = resp.Code
		}

		title := resp.Title
		if title == "" {
			title = "request_failed"
		}

		message := resp.Message
		if message == "" {
			message = http.StatusText(status)
		}

		return RespondError(c, status, title, message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return RespondError(c, fiberErr.Code, "request_failed", fiberErr.Message)
	}

	return RespondError(c, http.StatusInternalServerError, "request_failed", "An internal error occurred")
}
