package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// Desktop shells out to notify-send on Linux and osascript on macOS.
// Permission is granted on request when one of those tools is available.
type Desktop struct {
	mu         sync.Mutex
	permission Permission
	lookPath   func(string) (string, error)
	run        func(ctx context.Context, name string, args ...string) error
}

func NewDesktop() *Desktop {
	return &Desktop{
		permission: PermissionDefault,
		lookPath:   exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func (d *Desktop) Permission() Permission {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permission
}

func (d *Desktop) RequestPermission(_ context.Context) (Permission, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.permission != PermissionDefault {
		return d.permission, nil
	}
	if _, err := d.lookPath(desktopTool()); err != nil {
		d.permission = PermissionDenied
		return d.permission, nil
	}
	d.permission = PermissionGranted
	return d.permission, nil
}

func (d *Desktop) Notify(ctx context.Context, n Notification) error {
	if d.Permission() != PermissionGranted {
		return ErrPermissionDenied
	}
	switch runtime.GOOS {
	case "linux":
		return d.run(ctx, "notify-send", n.Title, n.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return d.run(ctx, "osascript", "-e", script)
	default:
		return nil
	}
}

func desktopTool() string {
	if runtime.GOOS == "darwin" {
		return "osascript"
	}
	return "notify-send"
}

// escapeAppleScript quotes s for use inside an AppleScript string literal.
// Backslashes go first so the added ones are not doubled.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
