package notify

import (
	"context"
	"sync"
)

// Recorder keeps every toast and notification it receives. The TUI reads
// its toast feed; tests use it as a fake.
type Recorder struct {
	mu            sync.Mutex
	permission    Permission
	grantOnAsk    bool
	toasts        []Toast
	notifications []Notification
	limit         int
}

// NewRecorder returns a recorder whose RequestPermission answers grant.
// limit caps the retained toasts; zero keeps all.
func NewRecorder(grant bool, limit int) *Recorder {
	return &Recorder{permission: PermissionDefault, grantOnAsk: grant, limit: limit}
}

func (r *Recorder) Toast(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
	if r.limit > 0 && len(r.toasts) > r.limit {
		r.toasts = r.toasts[len(r.toasts)-r.limit:]
	}
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

func (r *Recorder) Permission() Permission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.permission
}

func (r *Recorder) RequestPermission(context.Context) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permission == PermissionDefault {
		if r.grantOnAsk {
			r.permission = PermissionGranted
		} else {
			r.permission = PermissionDenied
		}
	}
	return r.permission, nil
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.permission != PermissionGranted {
		return ErrPermissionDenied
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}
