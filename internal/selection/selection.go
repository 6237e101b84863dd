// Package selection tracks how the user marks regions of the schedule image.
//
// Two selections live side by side: the whole table, which is split into
// day columns, and a single day, used to re-run one column the partitioner
// got wrong. Each follows the same drag cycle:
//
//	idle ──Begin──▶ dragging ──Update*──▶ dragging ──Commit──▶ idle (committed)
//	                    └──────────────Cancel──────────────▶ idle
//
// Only committed regions are handed to the extraction engine.
package selection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

// Mode selects which region a drag defines.
type Mode string

const (
	ModeTable Mode = "table"
	ModeDay   Mode = "day"
)

var (
	ErrUnknownMode    = errors.New("unknown selection mode")
	ErrNoImage        = errors.New("no image loaded")
	ErrNotDragging    = errors.New("no selection in progress")
	ErrEmptySelection = errors.New("selection is empty")
	ErrNotCommitted   = errors.New("no committed selection")
)

// ParseMode accepts "table" or "day".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTable, ModeDay:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownMode)
}

type drag struct {
	mode   Mode
	x0, y0 float64
	region imaging.Region
}

// Machine is the selection state for one image. It is safe for concurrent
// use.
type Machine struct {
	mu        sync.Mutex
	w, h      float64
	active    *drag
	committed map[Mode]imaging.Region
}

// New returns a machine with no image.
func New() *Machine {
	return &Machine{committed: make(map[Mode]imaging.Region)}
}

// Reset sets the image size and forgets every selection.
func (m *Machine) Reset(width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.w, m.h = width, height
	m.active = nil
	m.committed = make(map[Mode]imaging.Region)
}

// Bounds returns the image size.
func (m *Machine) Bounds() (width, height float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.w, m.h
}

// Begin starts a drag at (x, y). A drag already in progress is dropped.
func (m *Machine) Begin(mode Mode, x, y float64) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.w <= 0 || m.h <= 0 {
		return ErrNoImage
	}
	m.active = &drag{mode: mode, x0: x, y0: y, region: m.clip(imaging.FromPoints(x, y, x, y))}
	return nil
}

// Update moves the drag end point and returns the live region.
func (m *Machine) Update(x, y float64) (imaging.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return imaging.Region{}, ErrNotDragging
	}
	m.active.region = m.clip(imaging.FromPoints(m.active.x0, m.active.y0, x, y))
	return m.active.region, nil
}

// Commit ends the drag and stores its region for the drag's mode. An empty
// region is rejected and the previous committed region is kept.
func (m *Machine) Commit() (Mode, imaging.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return "", imaging.Region{}, ErrNotDragging
	}
	d := m.active
	m.active = nil

	if d.region.Empty() {
		return d.mode, imaging.Region{}, ErrEmptySelection
	}
	m.committed[d.mode] = d.region
	return d.mode, d.region, nil
}

// Cancel drops the drag in progress, if any.
func (m *Machine) Cancel() {
	m.mu.Lock()
	m.active = nil
	m.mu.Unlock()
}

// Set commits a region directly, without a drag. The region is clipped to
// the image.
func (m *Machine) Set(mode Mode, r imaging.Region) (imaging.Region, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return imaging.Region{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.w <= 0 || m.h <= 0 {
		return imaging.Region{}, ErrNoImage
	}
	r = m.clip(imaging.FromPoints(r.X, r.Y, r.X+r.W, r.Y+r.H))
	if r.Empty() {
		return imaging.Region{}, ErrEmptySelection
	}
	m.committed[mode] = r
	return r, nil
}

// Committed returns the committed region for mode.
func (m *Machine) Committed(mode Mode) (imaging.Region, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.committed[mode]
	if !ok {
		return imaging.Region{}, fmt.Errorf("%s: %w", mode, ErrNotCommitted)
	}
	return r, nil
}

// Dragging reports the mode of the drag in progress.
func (m *Machine) Dragging() (Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.mode, true
}

// Snapshot is a JSON view of the machine.
type Snapshot struct {
	Width     float64                 `json:"width"`
	Height    float64                 `json:"height"`
	Dragging  Mode                    `json:"dragging,omitempty"`
	Live      *imaging.Region         `json:"live,omitempty"`
	Committed map[Mode]imaging.Region `json:"committed"`
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{Width: m.w, Height: m.h, Committed: make(map[Mode]imaging.Region, len(m.committed))}
	for k, v := range m.committed {
		s.Committed[k] = v
	}
	if m.active != nil {
		live := m.active.region
		s.Dragging = m.active.mode
		s.Live = &live
	}
	return s
}

func (m *Machine) clip(r imaging.Region) imaging.Region {
	return r.Clip(m.w, m.h)
}
