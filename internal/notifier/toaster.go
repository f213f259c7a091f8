package notifier

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 4 * time.Second

// Toast is a short-lived user notification.
type Toast struct {
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier delivers toasts to the user.
type Notifier interface {
	Notify(t Toast)
}

// Toaster keeps the most recent toasts for a renderer to display.
type Toaster struct {
	mu    sync.Mutex
	items []Toast
	ttl   time.Duration
	max   int
	now   func() time.Time
}

// NewToaster creates a Toaster holding at most max toasts for ttl each.
func NewToaster(ttl time.Duration, max int) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if max <= 0 {
		max = 3
	}
	return &Toaster{ttl: ttl, max: max, now: time.Now}
}

func (t *Toaster) Notify(toast Toast) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if toast.At.IsZero() {
		toast.At = t.now()
	}
	t.items = append(t.items, toast)
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
	log.Debug().Str("kind", string(toast.Kind)).Str("title", toast.Title).Msg("toast")
}

// Error queues an error toast.
func (t *Toaster) Error(title string) {
	t.Notify(Toast{Kind: KindError, Title: title})
}

// Active returns the toasts that have not expired, oldest first, and drops
// the rest.
func (t *Toaster) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Sub(it.At) < t.ttl {
			kept = append(kept, it)
		}
	}
	t.items = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Clear drops every toast.
func (t *Toaster) Clear() {
	t.mu.Lock()
	t.items = nil
	t.mu.Unlock()
}
