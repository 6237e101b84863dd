package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func TestEdit_ManualRoundTrip(t *testing.T) {
	m := NewModel()
	display := "08:00 - 10:00\n14:00 - 18:00"
	m.SetAggregated(Vendredi, []string{"08:00 - 10:00", "14:00 - 18:00"})

	draft, err := m.OpenEdit(Vendredi)
	if err != nil {
		t.Fatalf("OpenEdit failed: %v", err)
	}
	want := []IntervalData{
		{StartH: "08", StartM: "00", EndH: "10", EndM: "00"},
		{StartH: "14", StartM: "00", EndH: "18", EndM: "00"},
	}
	if !reflect.DeepEqual(draft, want) {
		t.Errorf("draft: got %+v, want %+v", draft, want)
	}

	res, err := m.CloseEdit(Vendredi)
	if err != nil {
		t.Fatalf("CloseEdit failed: %v", err)
	}
	if res.Kind != KindManual {
		t.Errorf("kind: got %s, want manual", res.Kind)
	}
	if got := m.Display(Vendredi); got != display {
		t.Errorf("display: got %q, want %q", got, display)
	}
}

func TestEdit_SeedPadsAndDropsGarbage(t *testing.T) {
	m := NewModel()
	m.SetAggregated(Lundi, []string{"8:05 - 9:30", "not a time", "10:00-11:00"})

	draft, err := m.OpenEdit(Lundi)
	if err != nil {
		t.Fatalf("OpenEdit failed: %v", err)
	}
	want := []IntervalData{
		{StartH: "08", StartM: "05", EndH: "09", EndM: "30"},
		{StartH: "10", StartM: "00", EndH: "11", EndM: "00"},
	}
	if !reflect.DeepEqual(draft, want) {
		t.Errorf("draft: got %+v, want %+v", draft, want)
	}
}

func TestEdit_FailedDaySeedsEmpty(t *testing.T) {
	m := NewModel()
	m.SetAggregated(Samedi, nil)

	draft, err := m.OpenEdit(Samedi)
	if err != nil {
		t.Fatalf("OpenEdit failed: %v", err)
	}
	if len(draft) != 0 {
		t.Errorf("draft: got %+v, want empty", draft)
	}
	if state, _ := m.State(Samedi); state != KindEditing {
		t.Errorf("state: got %s, want editing", state)
	}
}

func TestEdit_AddUpdateRemove(t *testing.T) {
	m := NewModel()
	m.OpenEdit(Mardi)

	draft, err := m.AddInterval(Mardi)
	if err != nil {
		t.Fatalf("AddInterval failed: %v", err)
	}
	if len(draft) != 1 || draft[0] != DefaultInterval {
		t.Fatalf("draft after add: got %+v", draft)
	}

	m.AddInterval(Mardi)
	draft, err = m.UpdateField(Mardi, 1, FieldStartH, "13")
	if err != nil {
		t.Fatalf("UpdateField failed: %v", err)
	}
	if draft[1].StartH != "13" {
		t.Errorf("StartH: got %s, want 13", draft[1].StartH)
	}

	draft, err = m.RemoveInterval(Mardi, 0)
	if err != nil {
		t.Fatalf("RemoveInterval failed: %v", err)
	}
	if len(draft) != 1 || draft[0].StartH != "13" {
		t.Errorf("draft after remove: got %+v", draft)
	}

	res, err := m.CloseEdit(Mardi)
	if err != nil {
		t.Fatalf("CloseEdit failed: %v", err)
	}
	if got := res.Display(); got != "13:00 - 12:00" {
		t.Errorf("display: got %q, want %q", got, "13:00 - 12:00")
	}
}

func TestEdit_CloseNormalizes(t *testing.T) {
	m := NewModel()
	m.OpenEdit(Jeudi)
	m.ReplaceDraft(Jeudi, []IntervalData{
		{StartH: "7", StartM: "abc", EndH: "99", EndM: "75"},
		{StartH: "-3", StartM: "", EndH: " 9 ", EndM: "5"},
	})

	res, err := m.CloseEdit(Jeudi)
	if err != nil {
		t.Fatalf("CloseEdit failed: %v", err)
	}
	want := []string{"07:00 - 23:59", "00:00 - 09:05"}
	if got := res.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("lines: got %v, want %v", got, want)
	}
}

func TestEdit_CloseEmptyDraftFails(t *testing.T) {
	m := NewModel()
	m.SetAggregated(Lundi, []string{"09:00 - 12:00"})
	m.OpenEdit(Lundi)
	m.RemoveInterval(Lundi, 0)

	res, err := m.CloseEdit(Lundi)
	if err != nil {
		t.Fatalf("CloseEdit failed: %v", err)
	}
	if res.Kind != KindFailed {
		t.Errorf("kind: got %s, want failed", res.Kind)
	}
	if m.Editing(Lundi) {
		t.Error("edit session should be closed")
	}
}

func TestEdit_OpenTwiceKeepsDraft(t *testing.T) {
	m := NewModel()
	m.OpenEdit(Lundi)
	m.AddInterval(Lundi)

	draft, err := m.OpenEdit(Lundi)
	if err != nil {
		t.Fatalf("OpenEdit failed: %v", err)
	}
	if len(draft) != 1 {
		t.Errorf("draft: got %d intervals, want 1", len(draft))
	}
}

func TestEdit_Errors(t *testing.T) {
	m := NewModel()
	m.OpenEdit(Lundi)

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"add without edit", func() error { _, err := m.AddInterval(Mardi); return err }, ErrNotEditing},
		{"close without edit", func() error { _, err := m.CloseEdit(Mardi); return err }, ErrNotEditing},
		{"remove out of range", func() error { _, err := m.RemoveInterval(Lundi, 3); return err }, ErrIndexOutOfRange},
		{"update out of range", func() error { _, err := m.UpdateField(Lundi, -1, FieldEndH, "1"); return err }, ErrIndexOutOfRange},
		{"unknown day", func() error { _, err := m.OpenEdit("Funday"); return err }, ErrUnknownDay},
		{"unknown field", func() error {
			m.AddInterval(Lundi)
			_, err := m.UpdateField(Lundi, 0, "hours", "1")
			return err
		}, ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEdit_IsolatedPerDay(t *testing.T) {
	m := NewModel()
	m.SetAggregated(Mardi, []string{"09:00 - 12:00"})
	m.OpenEdit(Lundi)
	m.AddInterval(Lundi)
	m.CloseEdit(Lundi)

	if got := m.Display(Mardi); got != "09:00 - 12:00" {
		t.Errorf("Mardi changed: got %q", got)
	}
}
