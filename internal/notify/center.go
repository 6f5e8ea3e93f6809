package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Type classifies a notification for rendering.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
)

// DefaultTTL is how long a notification stays active before it dismisses
// itself.
const DefaultTTL = 5 * time.Second

// Notification is a transient, human-readable message for the UI.
type Notification struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center holds the active notifications. Each one is dismissed after the
// configured TTL or on explicit user dismissal, whichever comes first.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []Notification
	timers map[string]*time.Timer
	logger *zap.Logger
}

// NewCenter creates a notification center. A non-positive ttl falls back
// to DefaultTTL.
func NewCenter(ttl time.Duration, logger *zap.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
		logger: logger,
	}
}

// Publish adds a notification and schedules its auto-dismissal.
func (c *Center) Publish(t Type, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Type:      t,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.active = append(c.active, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	c.logger.Info("Notification published",
		zap.String("id", n.ID),
		zap.String("type", string(t)),
		zap.String("message", message))
	return n
}

// Success publishes a success notification.
func (c *Center) Success(format string, args ...interface{}) Notification {
	return c.Publish(TypeSuccess, fmt.Sprintf(format, args...))
}

// Error publishes an error notification.
func (c *Center) Error(format string, args ...interface{}) Notification {
	return c.Publish(TypeError, fmt.Sprintf(format, args...))
}

// Warning publishes a warning notification.
func (c *Center) Warning(format string, args ...interface{}) Notification {
	return c.Publish(TypeWarning, fmt.Sprintf(format, args...))
}

// Dismiss removes a notification. Safe to call twice; the second call is
// a no-op and returns false.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}

	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the currently visible notifications in publish order.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification{}, c.active...)
}

// Close stops all pending dismissal timers and clears the center.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.active = nil
}
