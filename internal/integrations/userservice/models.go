package userservice

import (
	"fmt"
	"strings"
)

// Car модель автомобиля из UserService
type Car struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
}

// Summary краткое описание для запроса: "Brand Model Year"
func (c *Car) Summary() string {
	parts := make([]string, 0, 3)
	if c.Brand != "" {
		parts = append(parts, c.Brand)
	}
	if c.Model != "" {
		parts = append(parts, c.Model)
	}
	if c.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", c.Year))
	}
	return strings.Join(parts, " ")
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
