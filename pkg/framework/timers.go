package framework

import (
	"sync"
	"time"
)

// TimeoutMsg is delivered to the loop when a timer started
// through Timers expires.
type TimeoutMsg struct {
	// Tag identifies the timer that expired.
	Tag string
	// At is the expiration time.
	At time.Time
}

// NewMessage implements Message.
func (m *TimeoutMsg) NewMessage() Message { return &TimeoutMsg{} }

// Timers provides tagged single-shot timers delivering TimeoutMsg
// through a LoopControl. Starting a timer with a tag already armed
// replaces the previous one: the replaced timer never delivers, so
// consumers observing a TimeoutMsg know it belongs to the latest
// Start for that tag.
type Timers struct {
	ctl LoopControl

	lock   sync.Mutex
	armed  map[string]*timerEntry
	nowFty func() time.Time
}

type timerEntry struct {
	tag   string
	timer *time.Timer
}

// NewTimers creates a Timers posting to ctl.
func NewTimers(ctl LoopControl) *Timers {
	return &Timers{
		ctl:    ctl,
		armed:  make(map[string]*timerEntry),
		nowFty: time.Now,
	}
}

// Start arms (or re-arms) the single-shot timer identified by tag.
func (t *Timers) Start(tag string, d time.Duration) {
	entry := &timerEntry{tag: tag}
	t.lock.Lock()
	if prev := t.armed[tag]; prev != nil {
		prev.timer.Stop()
	}
	t.armed[tag] = entry
	entry.timer = time.AfterFunc(d, func() { t.expire(entry) })
	t.lock.Unlock()
}

// Stop disarms the timer identified by tag. A timer already in
// flight when Stop is called never delivers its TimeoutMsg.
func (t *Timers) Stop(tag string) {
	t.lock.Lock()
	if entry := t.armed[tag]; entry != nil {
		entry.timer.Stop()
		delete(t.armed, tag)
	}
	t.lock.Unlock()
}

// Active reports whether the timer identified by tag is armed.
func (t *Timers) Active(tag string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.armed[tag] != nil
}

func (t *Timers) expire(entry *timerEntry) {
	t.lock.Lock()
	current := t.armed[entry.tag] == entry
	if current {
		delete(t.armed, entry.tag)
	}
	t.lock.Unlock()
	// A stale entry lost the race with Start/Stop and must not deliver.
	if !current {
		return
	}
	t.ctl.PostMessage(&TimeoutMsg{Tag: entry.tag, At: t.nowFty()})
	t.ctl.TriggerNext()
}
