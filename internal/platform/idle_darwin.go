package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type idleProvider struct{}

func newIdleProvider() IdleProvider {
	return &idleProvider{}
}

// IdleDuration reads HIDIdleTime (nanoseconds) from the IOHIDSystem registry
// entry.
func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		fields := strings.Split(line, "=")
		if len(fields) != 2 {
			continue
		}
		idleNanos, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		if idleNanos < 0 {
			idleNanos = 0
		}
		return time.Duration(idleNanos), nil
	}

	return 0, fmt.Errorf("ioreg: HIDIdleTime not found")
}
