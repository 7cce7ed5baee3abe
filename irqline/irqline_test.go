package irqline

import "testing"

func TestLevelRaiseClear(t *testing.T) {
	l := NewLevel()
	if l.Raised() {
		t.Fatalf("new Level reports Raised")
	}
	l.Raise()
	if !l.Raised() {
		t.Errorf("Raise() didn't latch high")
	}
	l.Clear()
	if l.Raised() {
		t.Errorf("Clear() didn't latch low")
	}
}

func TestLevelSatisfiesSender(t *testing.T) {
	var _ Sender = NewLevel()
}
