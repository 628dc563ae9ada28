package matchengine

import "testing"

func TestManagerRoutesBySymbol(t *testing.T) {
	m := NewEngineManager()

	if _, err := m.Submit("ABC", limit("S1", Sell, "100.0", 5)); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := m.Submit("XYZ", limit("S1", Sell, "50.0", 5)); err != nil {
		t.Fatalf("same id on another symbol must be independent: %v", err)
	}

	fills, err := m.Submit("ABC", limit("B1", Buy, "100.0", 5))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(fills) != 1 || fills[0].Symbol != "ABC" {
		t.Errorf("expected one ABC fill, got %+v", fills)
	}
	if got := m.Depth("XYZ", Sell); len(got) != 1 {
		t.Errorf("XYZ book must be untouched, got %+v", got)
	}
}

func TestManagerCallbackAppliesToNewBooks(t *testing.T) {
	m := NewEngineManager()

	fills := 0
	m.RegisterFillCallback(func(fs []*Fill) { fills += len(fs) })

	_, _ = m.Submit("NEW", limit("S1", Sell, "10.0", 1))
	_, _ = m.Submit("NEW", limit("B1", Buy, "10.0", 1))

	if fills != 1 {
		t.Errorf("callback should fire on books created after registration, got %d", fills)
	}
}

func TestManagerCancelUnknown(t *testing.T) {
	m := NewEngineManager()
	if m.Cancel("ABC", "nope") {
		t.Errorf("cancel on a fresh book must report not found")
	}
}
