package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// bindStrict decodes the JSON body into v, rejecting unknown fields, then runs
// struct validation. Unknown keys in mutation payloads are an error rather
// than silently dropped.
func bindStrict(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
