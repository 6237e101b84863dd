package schedule

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrRunInProgress is returned by BeginRun while another extraction holds
	// the model.
	ErrRunInProgress = errors.New("extraction already in progress")

	// ErrNotEditing is returned by draft operations on a day without an open
	// edit session.
	ErrNotEditing = errors.New("day is not being edited")

	// ErrIndexOutOfRange is returned for a draft index that does not exist.
	ErrIndexOutOfRange = errors.New("interval index out of range")

	// ErrUnknownField is returned by UpdateField for a field other than
	// start_h, start_m, end_h or end_m.
	ErrUnknownField = errors.New("unknown interval field")
)

// Model holds the per-day results of the current image.
//
// Each day is replaced independently, either by an extraction run or by a
// manual edit. All methods are safe for concurrent use.
type Model struct {
	mu     sync.Mutex
	days   map[Day]DayResult
	drafts map[Day][]IntervalData

	running atomic.Bool
}

// NewModel returns a model with every day empty.
func NewModel() *Model {
	m := &Model{}
	m.reset()
	return m
}

func (m *Model) reset() {
	m.days = make(map[Day]DayResult, len(Days))
	m.drafts = make(map[Day][]IntervalData)
	for _, d := range Days {
		m.days[d] = DayResult{Kind: KindEmpty}
	}
}

// Reset puts every day back to empty and drops open drafts. It is called
// when a new image is loaded.
func (m *Model) Reset() {
	m.mu.Lock()
	m.reset()
	m.mu.Unlock()
}

// BeginRun claims the model for one extraction run. The returned release
// function must be called when the run ends; calling it twice is harmless.
func (m *Model) BeginRun() (release func(), err error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	var once sync.Once
	return func() {
		once.Do(func() { m.running.Store(false) })
	}, nil
}

// Running reports whether an extraction run holds the model.
func (m *Model) Running() bool {
	return m.running.Load()
}

// SetAggregated stores the voted intervals for a day. An empty list marks
// the day as failed. Any open draft for the day is discarded.
func (m *Model) SetAggregated(day Day, intervals []string) (DayResult, error) {
	if _, ok := offsets[day]; !ok {
		return DayResult{}, fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}

	res := DayResult{Kind: KindFailed}
	if len(intervals) > 0 {
		res = DayResult{Kind: KindAggregated, Intervals: append([]string(nil), intervals...)}
	}

	m.mu.Lock()
	m.days[day] = res
	delete(m.drafts, day)
	m.mu.Unlock()

	return res.clone(), nil
}

// Result returns the committed result of a day.
func (m *Model) Result(day Day) (DayResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.days[day]
	if !ok {
		return DayResult{}, fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}
	return res.clone(), nil
}

// State returns the day's kind, or KindEditing while a draft is open.
func (m *Model) State(day Day) (Kind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.days[day]
	if !ok {
		return "", fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}
	if _, editing := m.drafts[day]; editing {
		return KindEditing, nil
	}
	return res.Kind, nil
}

// Display returns the text shown for a day. Unknown days display as failed.
func (m *Model) Display(day Day) string {
	res, err := m.Result(day)
	if err != nil {
		return FailedText
	}
	return res.Display()
}

// Intervals returns the canonical interval strings of a day.
func (m *Model) Intervals(day Day) []string {
	res, err := m.Result(day)
	if err != nil {
		return nil
	}
	return res.Lines()
}

// Snapshot returns a copy of every committed day result.
func (m *Model) Snapshot() map[Day]DayResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[Day]DayResult, len(m.days))
	for d, res := range m.days {
		out[d] = res.clone()
	}
	return out
}

// DayView is a read-only summary of one day for API responses.
type DayView struct {
	Day       Day            `json:"day"`
	State     Kind           `json:"state"`
	Display   string         `json:"display"`
	Intervals []string       `json:"intervals"`
	Draft     []IntervalData `json:"draft,omitempty"`
}

// View summarizes all days in canonical display order.
func (m *Model) View() []DayView {
	m.mu.Lock()
	defer m.mu.Unlock()

	views := make([]DayView, 0, len(Days))
	for _, d := range Days {
		res := m.days[d]
		v := DayView{
			Day:       d,
			State:     res.Kind,
			Display:   res.Display(),
			Intervals: res.Lines(),
		}
		if v.Intervals == nil {
			v.Intervals = []string{}
		}
		if draft, ok := m.drafts[d]; ok {
			v.State = KindEditing
			v.Draft = append([]IntervalData{}, draft...)
		}
		views = append(views, v)
	}
	return views
}
