//go:build windows

package display

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// NewController returns the default backend for the platform. Windows
// supports enumeration only; saved layouts cannot be applied.
func NewController(_ string) Controller {
	return &WinAPI{}
}

// WinAPI enumerates displays through the Windows monitor API.
type WinAPI struct{}

// Ensure WinAPI implements the interface.
var _ Controller = (*WinAPI)(nil)

// Outputs lists attached monitors. Every enumerated monitor is
// connected with an active mode by definition of the API.
func (w *WinAPI) Outputs() ([]Output, error) {
	state := &enumState{}
	callback := syscall.NewCallback(state.enumProc)

	if ok := win.EnumDisplayMonitors(0, nil, callback, 0); !ok {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", syscall.GetLastError())
	}
	if len(state.list) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return state.list, nil
}

// Apply is unsupported on Windows.
func (w *WinAPI) Apply(_ []Command) error {
	return ErrApplyUnsupported
}

type enumState struct {
	list  []Output
	index int
}

func (s *enumState) enumProc(hMonitor win.HMONITOR, hdc win.HDC, rect *win.RECT, lparam uintptr) uintptr {
	var info win.MONITORINFO
	info.CbSize = uint32(unsafe.Sizeof(info))
	if !win.GetMonitorInfo(hMonitor, &info) {
		return 1
	}

	r := info.RcMonitor
	s.index++
	o := Output{
		Name:      fmt.Sprintf("DISPLAY%d", s.index),
		Connected: true,
		Mode:      fmt.Sprintf("%dx%d", r.Right-r.Left, r.Bottom-r.Top),
		Pos:       fmt.Sprintf("%dx%d", r.Left, r.Top),
	}
	s.list = append(s.list, o)
	return 1
}
