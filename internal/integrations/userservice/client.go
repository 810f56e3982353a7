package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с UserService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента UserService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCar получает автомобиль пользователя
func (c *Client) GetCar(ctx context.Context, userID, carID int64) (*Car, error) {
	url := fmt.Sprintf("%s/internal/users/%d/cars/%d", c.baseURL, userID, carID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user or car ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrCarNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var car Car
	if err := json.NewDecoder(resp.Body).Decode(&car); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &car, nil
}

// GetCarWithGracefulDegradation получает автомобиль с graceful degradation
// Отсутствие автомобиля - бизнес-ошибка и пробрасывается как есть.
// Любая другая ошибка превращается в ErrServiceDegraded: запрос можно создать без описания автомобиля
func (c *Client) GetCarWithGracefulDegradation(ctx context.Context, userID, carID int64) (*Car, error) {
	c.log.Info("Fetching car id=%d for user_id=%d", carID, userID)

	car, err := c.GetCar(ctx, userID, carID)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			c.log.Info("Car id=%d not found for user_id=%d", carID, userID)
			return nil, err
		}

		c.log.Error("UserService unavailable, applying graceful degradation for user_id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	c.log.Info("Successfully fetched car id=%d for user_id=%d: %s", carID, userID, car.Summary())
	return car, nil
}
