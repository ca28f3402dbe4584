package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated subject from echo.Context and
// converts it to uint64. JWT numeric claims decode as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case float64:
		if t >= 0 {
			return uint64(t), nil
		}
	case string:
		if id, err := strconv.ParseUint(strings.TrimSpace(t), 10, 64); err == nil {
			return id, nil
		}
	}
	return 0, errors.New("no user id in context")
}

// parseID parses a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
