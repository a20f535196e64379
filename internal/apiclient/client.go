// Package apiclient - HTTP-клиент прохождения теста для терминального респондента.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yourusername/spatial-quiz-api/internal/domain/entity"
	"github.com/yourusername/spatial-quiz-api/internal/handler/dto"
	"github.com/yourusername/spatial-quiz-api/internal/middleware"
	apperrors "github.com/yourusername/spatial-quiz-api/internal/pkg/errors"
)

// maxImageSize ограничивает размер скачиваемого изображения
const maxImageSize = 10 << 20

// StatusError - ответ сервера с кодом ошибки
type StatusError struct {
	Code    int
	Message string
	Type    string
}

func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.Code, e.Type, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap сопоставляет код ответа с ошибками приложения
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusConflict:
		return apperrors.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.ErrValidation
	case http.StatusUnauthorized:
		if e.Type == "ticket_expired" {
			return apperrors.ErrExpiredToken
		}
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	}
	return nil
}

// Client обращается к /api/quiz
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New создаёт клиент. httpClient == nil - клиент без таймаута: запрос ждёт ответа,
// пока его не отменит контекст.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: u, http: httpClient}, nil
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return c.baseURL.String() + ref
	}
	return c.baseURL.ResolveReference(u).String()
}

func (c *Client) do(ctx context.Context, method, path, ticket string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ticket != "" {
		req.Header.Set(middleware.HeaderSessionTicket, ticket)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error     string `json:"error"`
		ErrorType string `json:"error_type"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(raw))
	}
	return &StatusError{Code: resp.StatusCode, Message: body.Error, Type: body.ErrorType}
}

// Start создаёт сессию
func (c *Client) Start(ctx context.Context, d entity.Demographics) (*dto.StartQuizResponse, error) {
	req := dto.StartQuizRequest{
		Name:             d.Name,
		AgeGroup:         d.AgeGroup,
		Gender:           d.Gender,
		Education:        d.Education,
		VisionStatus:     d.VisionStatus,
		InjuryAge:        d.InjuryAge,
		BrailleAbility:   d.BrailleAbility,
		MobilityAbility:  d.MobilityAbility,
		DrawingFrequency: d.DrawingFrequency,
		MuseumExperience: d.MuseumExperience,
	}
	var out dto.StartQuizResponse
	if err := c.do(ctx, http.MethodPost, "/api/quiz/start", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Question запрашивает направление сессии
func (c *Client) Question(ctx context.Context, sessionID, ticket, direction string) (*dto.DirectionQuestionResponse, error) {
	path := fmt.Sprintf("/api/quiz/%s/question/%s", url.PathEscape(sessionID), url.PathEscape(direction))
	var out dto.DirectionQuestionResponse
	if err := c.do(ctx, http.MethodGet, path, ticket, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit отправляет ответ на направление
func (c *Client) Submit(ctx context.Context, sessionID, ticket, direction, answer string, elapsedMs int64) (*dto.SubmitAnswerResponse, error) {
	path := fmt.Sprintf("/api/quiz/%s/answer", url.PathEscape(sessionID))
	req := dto.SubmitAnswerRequest{Direction: direction, Answer: answer, TimeMs: &elapsedMs}
	var out dto.SubmitAnswerResponse
	if err := c.do(ctx, http.MethodPost, path, ticket, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Result запрашивает итог сессии
func (c *Client) Result(ctx context.Context, sessionID, ticket string) (*dto.QuizResultResponse, error) {
	path := fmt.Sprintf("/api/quiz/%s/result", url.PathEscape(sessionID))
	var out dto.QuizResultResponse
	if err := c.do(ctx, http.MethodGet, path, ticket, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Image скачивает изображение вопроса по ссылке из ответа сервера
func (c *Client) Image(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("image %s exceeds %d bytes", ref, maxImageSize)
	}
	return data, nil
}
