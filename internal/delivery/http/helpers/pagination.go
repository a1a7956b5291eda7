package helpers

import (
	"net/http"
	"strconv"
)

// ViewportHeader carries the client's viewport width in CSS pixels.
const ViewportHeader = "X-Viewport-Width"

// MaxViewportWidth bounds the accepted viewport width.
const MaxViewportWidth = 10000

// ParseViewportWidth reads the client viewport width from the X-Viewport-Width
// header or the viewport_width query parameter. Missing or invalid values
// return 0, which keeps the configured page size.
func ParseViewportWidth(r *http.Request) int {
	s := r.Header.Get(ViewportHeader)
	if s == "" {
		s = r.URL.Query().Get("viewport_width")
	}
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > MaxViewportWidth {
		return 0
	}
	return v
}
