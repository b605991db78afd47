package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam извлекает числовой параметр маршрута и кладет его в
// контекст Gin под заданным ключом. Маршруты сессий используют его дважды:
// ExtractUintParam("id", "sessionID") и
// ExtractUintParam("question_id", "questionID"), поэтому обработчики
// берут готовые uint через c.MustGet и не парсят URL сами.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
