package bootstrap

import "github.com/gin-gonic/gin"

func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}

// NeedsRedis reports whether the store or the submit transport uses Redis.
func NeedsRedis(storeBackend, submitTransport string) bool {
	return storeBackend == "redis" || submitTransport == "redis"
}
