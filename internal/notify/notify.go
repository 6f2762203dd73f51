// Package notify delivers transient in-app toasts and, when the user has
// granted permission, desktop notifications.
package notify

import (
	"context"
	"errors"
	"time"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Toast struct {
	Level Level
	Title string
	Body  string
	At    time.Time
}

type Toaster interface {
	Toast(Toast)
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

var ErrPermissionDenied = errors.New("notify: permission denied")

type Notification struct {
	Title string
	Body  string
}

type Notifier interface {
	Permission() Permission
	// RequestPermission asks once; a previous answer is returned unchanged.
	RequestPermission(ctx context.Context) (Permission, error)
	Notify(ctx context.Context, n Notification) error
}

// Send delivers n only when permission was already granted. Denied or
// undecided permission is not an error.
func Send(ctx context.Context, n Notifier, msg Notification) error {
	if n == nil || n.Permission() != PermissionGranted {
		return nil
	}
	return n.Notify(ctx, msg)
}

// Denied never shows platform notifications.
type Denied struct{}

func (Denied) Permission() Permission { return PermissionDenied }

func (Denied) RequestPermission(context.Context) (Permission, error) {
	return PermissionDenied, nil
}

func (Denied) Notify(context.Context, Notification) error { return ErrPermissionDenied }

type ToastFunc func(Toast)

func (f ToastFunc) Toast(t Toast) { f(t) }

// Discard drops every toast.
var Discard Toaster = ToastFunc(func(Toast) {})
