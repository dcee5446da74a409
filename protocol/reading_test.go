package protocol

import (
	"errors"
	"testing"
)

func TestReadingQuotient_FromValueTotal(t *testing.T) {
	cases := []struct {
		value, total float64
		want         float64
	}{
		{42, 100, 42.0},
		{512, 4096, 12.5},
		{1400, 1400, 100.0},
		{0, 256, 0.0},
	}

	for _, c := range cases {
		r := Measure(c.value, c.total)
		if err := r.Validate(); err != nil {
			t.Fatalf("Measure(%v, %v) unexpectedly invalid: %v", c.value, c.total, err)
		}
		if got := r.Quotient(); got != c.want {
			t.Errorf("Quotient() for %v/%v = %v, want %v", c.value, c.total, got, c.want)
		}
	}
}

func TestReadingQuotient_OverviewWins(t *testing.T) {
	// Overview must be used verbatim, ignoring value/total.
	value, total := 10.0, 20.0
	r := Overview(87.5)
	r.Value = &value
	r.Total = &total

	if got := r.Quotient(); got != 87.5 {
		t.Errorf("Quotient() = %v, want overview 87.5", got)
	}
}

func TestReadingValidate_Empty(t *testing.T) {
	r := Reading{}
	err := r.Validate()
	if !errors.Is(err, ErrInvalidReading) {
		t.Fatalf("Validate() on empty reading = %v, want ErrInvalidReading", err)
	}
}

func TestReadingValidate_ZeroTotal(t *testing.T) {
	r := Measure(50, 0)
	err := r.Validate()
	if !errors.Is(err, ErrInvalidReading) {
		t.Fatalf("Validate() with total=0 = %v, want ErrInvalidReading", err)
	}
}

func TestReadingValidate_ValueWithoutTotal(t *testing.T) {
	value := 42.0
	r := Reading{Value: &value}
	if err := r.Validate(); !errors.Is(err, ErrInvalidReading) {
		t.Fatalf("Validate() with value only = %v, want ErrInvalidReading", err)
	}
}

func TestReadingDisplayQuotient_Clamps(t *testing.T) {
	if got := Measure(300, 100).DisplayQuotient(); got != 100 {
		t.Errorf("DisplayQuotient() over range = %v, want 100", got)
	}
	if got := Overview(-5).DisplayQuotient(); got != 0 {
		t.Errorf("DisplayQuotient() under range = %v, want 0", got)
	}
	// The raw quotient is preserved for labels.
	if got := Measure(300, 100).Quotient(); got != 300 {
		t.Errorf("Quotient() = %v, want raw 300", got)
	}
}

func TestValidIdentifier(t *testing.T) {
	valid := []string{"temp_cpu", "load_gpu", "pump", "disk_os", "a", "x9_y"}
	invalid := []string{"", "9load", "Temp", "load-cpu", "load cpu", "_pump"}

	for _, id := range valid {
		if !ValidIdentifier(id) {
			t.Errorf("ValidIdentifier(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if ValidIdentifier(id) {
			t.Errorf("ValidIdentifier(%q) = true, want false", id)
		}
	}
}

func TestPushRequestValidate(t *testing.T) {
	good := PushRequest{Data: map[string]Reading{
		"load_cpu": Measure(42, 100),
		"temp_gpu": Overview(55),
	}}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate() on good request: %v", err)
	}

	badKey := PushRequest{Data: map[string]Reading{"Bad-Key": Overview(1)}}
	if err := badKey.Validate(); err == nil {
		t.Error("Validate() accepted a malformed identifier key")
	}

	badReading := PushRequest{Data: map[string]Reading{"pump": Measure(600, 0)}}
	if err := badReading.Validate(); !errors.Is(err, ErrInvalidReading) {
		t.Errorf("Validate() with zero total = %v, want ErrInvalidReading", err)
	}

	empty := PushRequest{}
	if err := empty.Validate(); err == nil {
		t.Error("Validate() accepted an empty data map")
	}
}
