//go:build !windows

package display

// NewController returns the default backend for the platform.
func NewController(xrandrPath string) Controller {
	return NewXRandR(xrandrPath)
}
