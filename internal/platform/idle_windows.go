package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

type idleProvider struct {
	getLastInputInfo *windows.LazyProc
	getTickCount64   *windows.LazyProc
}

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

func newIdleProvider() IdleProvider {
	user32 := windows.NewLazySystemDLL("user32.dll")
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	return &idleProvider{
		getLastInputInfo: user32.NewProc("GetLastInputInfo"),
		getTickCount64:   kernel32.NewProc("GetTickCount64"),
	}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	result, _, err := provider.getLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if result == 0 {
		if err != nil {
			return 0, fmt.Errorf("get last input info: %w", err)
		}
		return 0, fmt.Errorf("get last input info: unknown error")
	}

	ticks, _, tickErr := provider.getTickCount64.Call()
	if ticks == 0 && tickErr != nil {
		return 0, fmt.Errorf("get tick count: %w", tickErr)
	}

	// dwTime wraps at 32 bits; subtracting in uint32 space stays correct
	// across the wrap.
	idleMillis := uint32(ticks) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
