package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DeviceHeader  = "X-Device-ID"
	ContextDevice = "device_id"
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,128}$`)

// DeviceMiddleware names the caller's local mirror. Clients send the id
// they were given; a missing or malformed one is replaced by a fresh uuid.
// The id in use is always echoed back.
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(DeviceHeader)
		if !deviceIDPattern.MatchString(id) {
			id = uuid.NewString()
		}

		c.Set(ContextDevice, id)
		c.Header(DeviceHeader, id)
		c.Next()
	}
}

func DeviceID(c *gin.Context) string {
	return c.GetString(ContextDevice)
}
