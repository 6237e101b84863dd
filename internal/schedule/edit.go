package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Interval fields accepted by UpdateField.
const (
	FieldStartH = "start_h"
	FieldStartM = "start_m"
	FieldEndH   = "end_h"
	FieldEndM   = "end_m"
)

var seedPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*-\s*(\d{1,2}):(\d{2})$`)

// DefaultInterval is appended by AddInterval.
var DefaultInterval = IntervalData{StartH: "08", StartM: "00", EndH: "12", EndM: "00"}

// OpenEdit starts an edit session for a day and returns its draft.
//
// The draft is seeded from the day's display text; lines that are not a
// plain "H:MM - H:MM" interval, including the failure text, are dropped.
// Opening a day that is already being edited returns the current draft.
func (m *Model) OpenEdit(day Day) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.days[day]
	if !ok {
		return nil, fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}
	if draft, editing := m.drafts[day]; editing {
		return cloneDraft(draft), nil
	}

	draft := seedDraft(res.Display())
	m.drafts[day] = draft
	return cloneDraft(draft), nil
}

func seedDraft(display string) []IntervalData {
	draft := []IntervalData{}
	for _, line := range strings.Split(display, "\n") {
		match := seedPattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		draft = append(draft, IntervalData{
			StartH: pad2(match[1]),
			StartM: pad2(match[2]),
			EndH:   pad2(match[3]),
			EndM:   pad2(match[4]),
		})
	}
	return draft
}

// Draft returns a copy of the open draft for a day.
func (m *Model) Draft(day Day) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.draftLocked(day)
	if err != nil {
		return nil, err
	}
	return cloneDraft(draft), nil
}

// AddInterval appends DefaultInterval to the draft.
func (m *Model) AddInterval(day Day) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.draftLocked(day)
	if err != nil {
		return nil, err
	}
	draft = append(draft, DefaultInterval)
	m.drafts[day] = draft
	return cloneDraft(draft), nil
}

// RemoveInterval deletes the draft interval at idx.
func (m *Model) RemoveInterval(day Day, idx int) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.draftLocked(day)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(draft) {
		return nil, fmt.Errorf("remove %d of %d: %w", idx, len(draft), ErrIndexOutOfRange)
	}
	draft = append(draft[:idx:idx], draft[idx+1:]...)
	m.drafts[day] = draft
	return cloneDraft(draft), nil
}

// UpdateField sets one field of the draft interval at idx. The value is kept
// as typed until CloseEdit.
func (m *Model) UpdateField(day Day, idx int, field, value string) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.draftLocked(day)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(draft) {
		return nil, fmt.Errorf("update %d of %d: %w", idx, len(draft), ErrIndexOutOfRange)
	}

	d := &draft[idx]
	switch field {
	case FieldStartH:
		d.StartH = value
	case FieldStartM:
		d.StartM = value
	case FieldEndH:
		d.EndH = value
	case FieldEndM:
		d.EndM = value
	default:
		return nil, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return cloneDraft(draft), nil
}

// ReplaceDraft swaps the whole draft for list.
func (m *Model) ReplaceDraft(day Day, list []IntervalData) ([]IntervalData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.draftLocked(day); err != nil {
		return nil, err
	}
	draft := cloneDraft(list)
	m.drafts[day] = draft
	return cloneDraft(draft), nil
}

// CloseEdit commits the draft as the day's manual result and ends the edit
// session. Fields are normalized to two-digit numbers; an empty draft marks
// the day as failed.
func (m *Model) CloseEdit(day Day) (DayResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.draftLocked(day)
	if err != nil {
		return DayResult{}, err
	}
	delete(m.drafts, day)

	res := DayResult{Kind: KindFailed}
	if len(draft) > 0 {
		manual := make([]IntervalData, len(draft))
		for i, d := range draft {
			manual[i] = normalize(d)
		}
		res = DayResult{Kind: KindManual, Manual: manual}
	}
	m.days[day] = res
	return res.clone(), nil
}

// Editing reports whether a draft is open for a day.
func (m *Model) Editing(day Day) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.drafts[day]
	return ok
}

func (m *Model) draftLocked(day Day) ([]IntervalData, error) {
	if _, ok := m.days[day]; !ok {
		return nil, fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}
	draft, ok := m.drafts[day]
	if !ok {
		return nil, fmt.Errorf("%s: %w", day, ErrNotEditing)
	}
	return draft, nil
}

func normalize(d IntervalData) IntervalData {
	return IntervalData{
		StartH: clampField(d.StartH, 23),
		StartM: clampField(d.StartM, 59),
		EndH:   clampField(d.EndH, 23),
		EndM:   clampField(d.EndM, 59),
	}
}

// clampField parses a typed number, falling back to 0, and clamps it to
// [0, limit].
func clampField(s string, limit int) string {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		v = 0
	}
	if v > limit {
		v = limit
	}
	return fmt.Sprintf("%02d", v)
}

func pad2(s string) string {
	if len(s) < 2 {
		return strings.Repeat("0", 2-len(s)) + s
	}
	return s
}

func cloneDraft(d []IntervalData) []IntervalData {
	return append([]IntervalData{}, d...)
}
