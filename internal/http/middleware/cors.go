package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedHeaders are the request headers browser widgets send to the chat endpoint.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

var AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              AllowedMethods,
		AllowHeaders:              AllowedHeaders,
		ExposeHeaders:             []string{headerTraceID, headerRequestID},
		OptionsResponseStatusCode: 204,
	})
}
