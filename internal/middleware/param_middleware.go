package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// ContextQuestionID - ключ ID вопроса из пути /questions/:id
const ContextQuestionID = "questionID"

// ExtractUintParam разбирает положительный числовой параметр пути и кладёт его в контекст
// под contextKey. Ноль, знак и нечисловое значение дают 400 с описанием поля.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			fields := apperrors.FieldErrors{{
				Field:   paramName,
				Message: "must be a positive integer",
				Rule:    "uint",
				Value:   raw,
			}}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":  fields.Error(),
				"fields": fields,
			})
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}

// UintParam читает значение, сохранённое ExtractUintParam
func UintParam(c *gin.Context, contextKey string) (uint, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
