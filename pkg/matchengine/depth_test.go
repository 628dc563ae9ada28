package matchengine

import "testing"

func TestDepthViewAdjust(t *testing.T) {
	d := newDepthView(Buy)

	d.adjust(dec("100.0"), 10)
	d.adjust(dec("100.0"), 5)
	d.adjust(dec("101.0"), 7)

	got := d.snapshot()
	if len(got) != 2 {
		t.Fatalf("expected 2 levels, got %+v", got)
	}
	if got[0].Volume != 15 || got[1].Volume != 7 {
		t.Errorf("expected volumes 15 and 7, got %+v", got)
	}
}

func TestDepthViewZeroLevelDeleted(t *testing.T) {
	d := newDepthView(Buy)

	d.adjust(dec("100.0"), 10)
	d.adjust(dec("100.0"), -10)

	if got := d.snapshot(); len(got) != 0 {
		t.Errorf("drained level must be absent, not zero: %+v", got)
	}

	// zero delta on a missing level must not create one
	d.adjust(dec("50.0"), 0)
	if got := d.snapshot(); len(got) != 0 {
		t.Errorf("zero delta must not create a level: %+v", got)
	}
}

func TestDepthViewNegativePanics(t *testing.T) {
	d := newDepthView(Sell)
	d.adjust(dec("100.0"), 5)

	defer func() {
		if recover() == nil {
			t.Errorf("negative aggregate must panic")
		}
	}()
	d.adjust(dec("100.0"), -6)
}

func TestDepthViewUnderflowOnMissingLevelPanics(t *testing.T) {
	d := newDepthView(Sell)

	defer func() {
		if recover() == nil {
			t.Errorf("decrement of a missing level must panic")
		}
	}()
	d.adjust(dec("100.0"), -1)
}

func TestDepthViewRangeInclusive(t *testing.T) {
	d := newDepthView(Buy)
	for _, price := range []string{"99.0", "100.0", "101.0", "102.0"} {
		d.adjust(dec(price), 1)
	}

	got := d.rangeSnapshot(dec("100.0"), dec("101.0"))
	if len(got) != 2 {
		t.Fatalf("expected 2 levels in range, got %+v", got)
	}
	if !got[0].Price.Equal(dec("100.0")) || !got[1].Price.Equal(dec("101.0")) {
		t.Errorf("bounds must be inclusive, got %+v", got)
	}

	if got := d.rangeSnapshot(dec("101.0"), dec("100.0")); len(got) != 0 {
		t.Errorf("inverted range must be empty, got %+v", got)
	}
	if got := d.rangeSnapshot(dec("100.5"), dec("100.6")); len(got) != 0 {
		t.Errorf("range between levels must be empty, got %+v", got)
	}
}
