package nav

import "testing"

func TestKeys(t *testing.T) {
	var n Navigator
	if n.Screen() != Dashboard {
		t.Fatalf("expected dashboard first")
	}
	if !n.Key("left") || n.Screen() != Alarms {
		t.Fatalf("left should show alarms")
	}
	if n.Key("left") {
		t.Fatalf("left on alarms should be a no-op")
	}
	if !n.Key("right") || n.Screen() != Dashboard {
		t.Fatalf("right should show dashboard")
	}
	if n.Key("up") {
		t.Fatalf("other keys must not navigate")
	}
}

func TestSwipe(t *testing.T) {
	n := New(8)
	n.Press(40)
	if !n.Release(20) || n.Screen() != Alarms {
		t.Fatalf("left swipe should show alarms")
	}
	n.Press(20)
	if n.Release(25) || n.Screen() != Alarms {
		t.Fatalf("short swipe should not navigate")
	}
	n.Press(10)
	if !n.Release(30) || n.Screen() != Dashboard {
		t.Fatalf("right swipe should show dashboard")
	}
	if n.Release(0) {
		t.Fatalf("release without press should be ignored")
	}
}

func TestSwipeExactlyThresholdIgnored(t *testing.T) {
	var n Navigator
	n.Press(20)
	if n.Release(20 - DefaultSwipeThreshold) {
		t.Fatalf("drag must exceed the threshold")
	}
}
