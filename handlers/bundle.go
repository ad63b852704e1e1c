// File: podgoro/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoint.
	ChatHandler gin.HandlerFunc

	// Admin endpoints.
	AdminLoginHandler gin.HandlerFunc
	AdminHandler      *AdminHandler
}
