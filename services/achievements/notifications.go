package achievements

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseVisible Phase = "visible"
	PhaseExiting Phase = "exiting"
)

type Notification struct {
	ID            string    `json:"id"`
	AchievementID string    `json:"achievementId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	ShownAt       time.Time `json:"shownAt"`
	Phase         Phase     `json:"phase"`
}

type EventKind string

const (
	EventShown      EventKind = "shown"
	EventDismissing EventKind = "dismissing"
	EventRemoved    EventKind = "removed"
)

type NotificationEvent struct {
	Kind         EventKind    `json:"kind"`
	Notification Notification `json:"notification"`
}

type Listener func(NotificationEvent)

type pending struct {
	notification Notification
	timer        *time.Timer
}

// NotificationCenter shows unlock notifications and removes them again,
// either after the display window or when the player closes them. Each
// notification goes visible -> exiting -> removed exactly once; a timer that
// fires after an explicit close finds nothing left to do.
type NotificationCenter struct {
	mu        sync.Mutex
	display   time.Duration
	exit      time.Duration
	active    map[string]*pending
	order     []string
	listeners []Listener
	closed    bool
}

func NewNotificationCenter(display, exit time.Duration) *NotificationCenter {
	return &NotificationCenter{
		display: display,
		exit:    exit,
		active:  make(map[string]*pending),
	}
}

func (nc *NotificationCenter) Subscribe(l Listener) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.listeners = append(nc.listeners, l)
}

// AchievementUnlocked makes the center usable as a tracker Notifier
func (nc *NotificationCenter) AchievementUnlocked(a Achievement, at time.Time) {
	nc.Show(a, at)
}

func (nc *NotificationCenter) Show(a Achievement, at time.Time) (Notification, bool) {
	nc.mu.Lock()
	if nc.closed {
		nc.mu.Unlock()
		return Notification{}, false
	}

	n := Notification{
		ID:            uuid.NewString(),
		AchievementID: a.ID,
		Title:         a.Name,
		Description:   a.Description,
		Category:      a.Category,
		ShownAt:       at,
		Phase:         PhaseVisible,
	}
	p := &pending{notification: n}
	p.timer = time.AfterFunc(nc.display, func() { nc.beginExit(n.ID) })
	nc.active[n.ID] = p
	nc.order = append(nc.order, n.ID)
	listeners := nc.snapshotListeners()
	nc.mu.Unlock()

	emit(listeners, NotificationEvent{Kind: EventShown, Notification: n})
	return n, true
}

// Dismiss is the explicit close. It returns false if id is unknown or
// already on its way out.
func (nc *NotificationCenter) Dismiss(id string) bool {
	return nc.beginExit(id)
}

func (nc *NotificationCenter) beginExit(id string) bool {
	nc.mu.Lock()
	p, ok := nc.active[id]
	if !ok || p.notification.Phase != PhaseVisible {
		nc.mu.Unlock()
		return false
	}
	p.timer.Stop()
	p.notification.Phase = PhaseExiting
	p.timer = time.AfterFunc(nc.exit, func() { nc.remove(id) })
	n := p.notification
	listeners := nc.snapshotListeners()
	nc.mu.Unlock()

	emit(listeners, NotificationEvent{Kind: EventDismissing, Notification: n})
	return true
}

func (nc *NotificationCenter) remove(id string) {
	nc.mu.Lock()
	p, ok := nc.active[id]
	if !ok || p.notification.Phase != PhaseExiting {
		nc.mu.Unlock()
		return
	}
	nc.dropLocked(id)
	n := p.notification
	listeners := nc.snapshotListeners()
	nc.mu.Unlock()

	emit(listeners, NotificationEvent{Kind: EventRemoved, Notification: n})
}

func (nc *NotificationCenter) dropLocked(id string) {
	delete(nc.active, id)
	for i, other := range nc.order {
		if other == id {
			nc.order = append(nc.order[:i], nc.order[i+1:]...)
			break
		}
	}
}

// Active lists notifications still on screen, oldest first
func (nc *NotificationCenter) Active() []Notification {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	out := make([]Notification, 0, len(nc.order))
	for _, id := range nc.order {
		out = append(out, nc.active[id].notification)
	}
	return out
}

// Clear drops every notification immediately, without events
func (nc *NotificationCenter) Clear() {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	for _, p := range nc.active {
		p.timer.Stop()
	}
	nc.active = make(map[string]*pending)
	nc.order = nil
}

// Close cancels all pending timers; later Show calls are ignored
func (nc *NotificationCenter) Close() {
	nc.Clear()
	nc.mu.Lock()
	nc.closed = true
	nc.mu.Unlock()
}

func (nc *NotificationCenter) snapshotListeners() []Listener {
	return append([]Listener(nil), nc.listeners...)
}

func emit(listeners []Listener, ev NotificationEvent) {
	for _, l := range listeners {
		l(ev)
	}
}
