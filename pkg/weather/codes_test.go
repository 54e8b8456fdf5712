package weather

import "testing"

func TestEveryCodeHasOneKnownCategory(t *testing.T) {
	known := make(map[Category]bool)
	for _, c := range Categories {
		known[c] = true
	}
	for _, code := range Codes() {
		cat := Classify(code)
		if !known[cat] {
			t.Errorf("code %d maps to undefined category %q", code, cat)
		}
		if Label(code) == "不明" {
			t.Errorf("code %d has no label", code)
		}
	}
}

func TestUnknownCodeUsesDefault(t *testing.T) {
	for _, code := range []int{-1, 4, 50, 100, 1000} {
		if got := Classify(code); got != DefaultCategory {
			t.Errorf("Classify(%d) = %q, want %q", code, got, DefaultCategory)
		}
	}
}

func TestClassifySamples(t *testing.T) {
	cases := map[int]Category{
		0: Clear, 2: PartlyCloudy, 3: Cloudy, 45: Cloudy, 63: Rain, 73: Snow, 95: Storm,
	}
	for code, want := range cases {
		if got := Classify(code); got != want {
			t.Errorf("Classify(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestWindDirection(t *testing.T) {
	cases := map[float64]string{
		0: "北", 44: "北東", 90: "東", 135: "南東", 180: "南", 225: "南西", 270: "西", 315: "北西", 350: "北", -90: "西",
	}
	for deg, want := range cases {
		if got := WindDirection(deg); got != want {
			t.Errorf("WindDirection(%v) = %q, want %q", deg, got, want)
		}
	}
}
