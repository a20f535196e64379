package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// HeaderSessionTicket - заголовок с тикетом сессии респондента
const HeaderSessionTicket = "X-Session-Ticket"

// TicketVerifier проверяет, что тикет выдан для сессии
type TicketVerifier interface {
	Verify(ticket, sessionID string) error
}

// RequireSessionTicket пропускает запрос, только если тикет принадлежит сессии из параметра URL.
// Тикет читается из заголовка, для websocket-клиентов допускается query-параметр ticket.
func RequireSessionTicket(verifier TicketVerifier, paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket := strings.TrimSpace(c.GetHeader(HeaderSessionTicket))
		if ticket == "" {
			ticket = c.Query("ticket")
		}
		if ticket == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session ticket is required"})
			return
		}

		err := verifier.Verify(ticket, c.Param(paramName))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, apperrors.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "ticket does not belong to this session"})
		case errors.Is(err, apperrors.ErrExpiredToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session ticket expired", "error_type": "ticket_expired"})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session ticket"})
		}
	}
}
