package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

const ticketUsage = "quiz_session"

// TicketClaims содержит поля тикета сессии респондента
type TicketClaims struct {
	SessionID string `json:"sid"`
	Usage     string `json:"usage"`
	jwt.RegisteredClaims
}

// TicketService выдает и проверяет тикеты сессий (HS256).
// Тикет привязывает запросы респондента к его сессии.
type TicketService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTicketService создает сервис тикетов
func NewTicketService(secret string, ttl time.Duration) (*TicketService, error) {
	if secret == "" {
		return nil, fmt.Errorf("ticket secret cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ticket ttl must be positive, got %s", ttl)
	}
	return &TicketService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue выдает тикет для сессии
func (s *TicketService) Issue(sessionID string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)
	claims := TicketClaims{
		SessionID: sessionID,
		Usage:     ticketUsage,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign ticket: %w", err)
	}
	return token, expiresAt, nil
}

// Parse проверяет подпись и срок действия тикета
func (s *TicketService) Parse(ticket string) (*TicketClaims, error) {
	claims := &TicketClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(ticket, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	if !token.Valid || claims.Usage != ticketUsage || claims.SessionID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}

// Verify проверяет, что тикет выдан для указанной сессии
func (s *TicketService) Verify(ticket, sessionID string) error {
	claims, err := s.Parse(ticket)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return fmt.Errorf("%w: ticket does not belong to session", apperrors.ErrForbidden)
	}
	return nil
}
