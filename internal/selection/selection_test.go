package selection

import (
	"errors"
	"testing"

	"github.com/ironsheep/schedule-ocr-mcp/internal/imaging"
)

func newMachine() *Machine {
	m := New()
	m.Reset(1000, 800)
	return m
}

func TestMachine_DragCycle(t *testing.T) {
	m := newMachine()

	if err := m.Begin(ModeTable, 300, 400); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if mode, ok := m.Dragging(); !ok || mode != ModeTable {
		t.Errorf("Dragging: got (%s, %v)", mode, ok)
	}

	live, err := m.Update(100, 100)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	want := imaging.Region{X: 100, Y: 100, W: 200, H: 300}
	if live != want {
		t.Errorf("live: got %v, want %v", live, want)
	}

	mode, r, err := m.Commit()
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if mode != ModeTable || r != want {
		t.Errorf("commit: got (%s, %v)", mode, r)
	}

	got, err := m.Committed(ModeTable)
	if err != nil || got != want {
		t.Errorf("Committed: got (%v, %v), want %v", got, err, want)
	}
	if _, ok := m.Dragging(); ok {
		t.Error("still dragging after Commit")
	}
}

func TestMachine_ClipsToImage(t *testing.T) {
	m := newMachine()
	m.Begin(ModeTable, -50, -20)
	live, _ := m.Update(1200, 900)

	want := imaging.Region{X: 0, Y: 0, W: 1000, H: 800}
	if live != want {
		t.Errorf("got %v, want %v", live, want)
	}
}

func TestMachine_IndependentModes(t *testing.T) {
	m := newMachine()

	m.Begin(ModeTable, 0, 0)
	m.Update(700, 400)
	m.Commit()

	m.Begin(ModeDay, 100, 0)
	m.Update(200, 400)
	m.Commit()

	table, _ := m.Committed(ModeTable)
	day, _ := m.Committed(ModeDay)
	if table.W != 700 || day.W != 100 || day.X != 100 {
		t.Errorf("table %v, day %v", table, day)
	}
}

func TestMachine_EmptyCommitKeepsPrevious(t *testing.T) {
	m := newMachine()
	m.Begin(ModeDay, 10, 10)
	m.Update(50, 50)
	m.Commit()

	m.Begin(ModeDay, 20, 20)
	if _, _, err := m.Commit(); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("got %v, want ErrEmptySelection", err)
	}

	got, err := m.Committed(ModeDay)
	if err != nil || got.W != 40 {
		t.Errorf("previous selection lost: %v, %v", got, err)
	}
}

func TestMachine_Cancel(t *testing.T) {
	m := newMachine()
	m.Begin(ModeTable, 0, 0)
	m.Update(100, 100)
	m.Cancel()

	if _, _, err := m.Commit(); !errors.Is(err, ErrNotDragging) {
		t.Errorf("Commit after Cancel: got %v, want ErrNotDragging", err)
	}
	if _, err := m.Committed(ModeTable); !errors.Is(err, ErrNotCommitted) {
		t.Errorf("Committed: got %v, want ErrNotCommitted", err)
	}
}

func TestMachine_Errors(t *testing.T) {
	empty := New()
	if err := empty.Begin(ModeTable, 0, 0); !errors.Is(err, ErrNoImage) {
		t.Errorf("Begin without image: got %v", err)
	}

	m := newMachine()
	if err := m.Begin("column", 0, 0); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Begin with bad mode: got %v", err)
	}
	if _, err := m.Update(1, 1); !errors.Is(err, ErrNotDragging) {
		t.Errorf("Update while idle: got %v", err)
	}
}

func TestMachine_Set(t *testing.T) {
	m := newMachine()

	got, err := m.Set(ModeTable, imaging.Region{X: 900, Y: 700, W: 200, H: 200})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if want := (imaging.Region{X: 900, Y: 700, W: 100, H: 100}); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := m.Set(ModeDay, imaging.Region{X: 2000, Y: 0, W: 10, H: 10}); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("Set outside image: got %v, want ErrEmptySelection", err)
	}
}

func TestMachine_ResetForgets(t *testing.T) {
	m := newMachine()
	m.Set(ModeTable, imaging.Region{W: 10, H: 10})
	m.Begin(ModeDay, 0, 0)

	m.Reset(500, 500)

	snap := m.Snapshot()
	if len(snap.Committed) != 0 || snap.Live != nil || snap.Width != 500 {
		t.Errorf("after Reset: got %+v", snap)
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"table", "day"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseMode("TABLE"); err == nil {
		t.Error("ParseMode should be case sensitive")
	}
}
