// Package response renders the JSON envelope every handler replies with:
// {"success": true, "data": ...} on success, {"success": false,
// "error": {"code", "message", "details"?}} on failure. Codes are stable
// machine-readable strings; messages are for humans and may change.
package response

import "github.com/gin-gonic/gin"

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, successEnvelope{Success: true, Data: data})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// ErrorWithDetails carries a structured payload alongside the error, typically
// the field->tag map from validation.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, errorEnvelope{Error: errorBody{Code: code, Message: message, Details: details}})
}
