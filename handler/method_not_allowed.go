package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Kelvin-Amaju/keyclip-lite/utils"
)

// MethodNotAllowedHandler answers 405 with an Allow header listing the
// methods supported on the requested route.
func MethodNotAllowedHandler(c *gin.Context) {
	path := c.Request.URL.Path
	switch {
	case path == "/notes":
		utils.MethodNotAllowed(c, "GET, POST")
	case strings.HasPrefix(path, "/notes/"):
		utils.MethodNotAllowed(c, "PUT, DELETE")
	case path == "/summarize":
		utils.MethodNotAllowed(c, "POST")
	default:
		utils.MethodNotAllowed(c, "GET")
	}
}
