package workshopservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с WorkshopService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента WorkshopService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetWorkshop получает мастерскую с часами работы и списком менеджеров
func (c *Client) GetWorkshop(ctx context.Context, workshopID int64) (*Workshop, error) {
	url := fmt.Sprintf("%s/internal/workshops/%d", c.baseURL, workshopID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("GetWorkshop: request to WorkshopService failed for workshop_id=%d: %v", workshopID, err)
		return nil, fmt.Errorf("%w: failed to execute request: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		c.log.Warn("GetWorkshop: workshop_id=%d not found", workshopID)
		return nil, ErrWorkshopNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var workshop Workshop
	if err := json.NewDecoder(resp.Body).Decode(&workshop); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &workshop, nil
}
