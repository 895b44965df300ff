package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devOrigin = "http://localhost:5173"

// CORSMiddleware allows the dev storefront plus every origin in originURLs,
// a comma separated list. The device header is exposed so browser clients
// can keep the generated id.
func CORSMiddleware(originURLs string) gin.HandlerFunc {
	origins := []string{devOrigin}
	for _, o := range strings.Split(originURLs, ",") {
		if o = strings.TrimSuffix(strings.TrimSpace(o), "/"); o != "" && o != devOrigin {
			origins = append(origins, o)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", DeviceHeader},
		ExposeHeaders:    []string{"Content-Length", DeviceHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
