package habit

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSchedule_MarshalDaily(t *testing.T) {
	data, err := json.Marshal(Daily())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"daily"` {
		t.Errorf("daily schedule marshals to %s", data)
	}
}

func TestSchedule_MarshalWeekdays(t *testing.T) {
	data, err := json.Marshal(OnDays(time.Monday, time.Wednesday))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["monday","wednesday"]` {
		t.Errorf("weekday schedule marshals to %s", data)
	}
}

func TestSchedule_UnmarshalRoundTrip(t *testing.T) {
	for _, raw := range []string{`"daily"`, `["monday","friday"]`, `["Saturday","SUNDAY"]`} {
		var s Schedule
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		data, err := json.Marshal(s)
		if err != nil {
			t.Fatal(err)
		}
		var again Schedule
		if err := json.Unmarshal(data, &again); err != nil {
			t.Fatalf("re-unmarshal %s: %v", data, err)
		}
	}
}

func TestSchedule_UnmarshalRejectsUnknown(t *testing.T) {
	for _, raw := range []string{`"weekly"`, `["funday"]`, `42`} {
		var s Schedule
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			t.Errorf("unmarshal of %s should fail", raw)
		}
	}
}

func TestSchedule_ActiveOn_CaseInsensitiveNames(t *testing.T) {
	var s Schedule
	if err := json.Unmarshal([]byte(`["Monday"]`), &s); err != nil {
		t.Fatal(err)
	}
	monday := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.Local)
	if !s.ActiveOn(monday) {
		t.Error("mixed-case weekday name should still match")
	}
}

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule("daily")
	if err != nil || !s.IsDaily() {
		t.Errorf("ParseSchedule(daily) = %v, %v", s, err)
	}

	s, err = ParseSchedule("mon,wed,fri")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Days) != 3 {
		t.Errorf("expected 3 days, got %v", s.Days)
	}

	if _, err := ParseSchedule("mon,funday"); err == nil {
		t.Error("unknown weekday should fail")
	}
}

func TestParseWeekdays_Dedup(t *testing.T) {
	days, err := ParseWeekdays([]string{"monday", "mon", "Monday"})
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 {
		t.Errorf("expected deduplicated single day, got %v", days)
	}
}

func TestSchedule_String(t *testing.T) {
	if got := Daily().String(); got != "daily" {
		t.Errorf("String = %q", got)
	}
	if got := OnDays(time.Tuesday).String(); got != "tuesday" {
		t.Errorf("String = %q", got)
	}
}
