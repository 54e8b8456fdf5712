package weather

import "math"

// Category is the icon class a condition code is drawn with.
type Category string

const (
	Clear        Category = "clear"
	PartlyCloudy Category = "partly-cloudy"
	Cloudy       Category = "cloudy"
	Rain         Category = "rain"
	Snow         Category = "snow"
	Storm        Category = "storm"
)

// DefaultCategory is used for codes outside the table.
const DefaultCategory = Cloudy

// Categories lists every category in display order.
var Categories = []Category{Clear, PartlyCloudy, Cloudy, Rain, Snow, Storm}

type codeInfo struct {
	category Category
	label    string
}

// WMO codes as reported by Open-Meteo.
var codeTable = map[int]codeInfo{
	0:  {Clear, "快晴"},
	1:  {Clear, "晴れ"},
	2:  {PartlyCloudy, "一部曇り"},
	3:  {Cloudy, "曇り"},
	45: {Cloudy, "霧"},
	48: {Cloudy, "霧氷"},
	51: {Rain, "霧雨"},
	53: {Rain, "霧雨"},
	55: {Rain, "霧雨"},
	56: {Rain, "着氷性の霧雨"},
	57: {Rain, "着氷性の霧雨"},
	61: {Rain, "小雨"},
	63: {Rain, "雨"},
	65: {Rain, "大雨"},
	66: {Rain, "着氷性の雨"},
	67: {Rain, "着氷性の雨"},
	71: {Snow, "小雪"},
	73: {Snow, "雪"},
	75: {Snow, "大雪"},
	77: {Snow, "霧雪"},
	80: {Rain, "にわか雨"},
	81: {Rain, "にわか雨"},
	82: {Rain, "激しい雨"},
	85: {Snow, "にわか雪"},
	86: {Snow, "激しいにわか雪"},
	95: {Storm, "雷雨"},
	96: {Storm, "雷雨"},
	99: {Storm, "激しい雷雨"},
}

// Codes returns every known condition code.
func Codes() []int {
	out := make([]int, 0, len(codeTable))
	for code := range codeTable {
		out = append(out, code)
	}
	return out
}

// Classify maps a condition code to its icon category.
func Classify(code int) Category {
	if info, ok := codeTable[code]; ok {
		return info.category
	}
	return DefaultCategory
}

// Label is the Japanese description of code, or "不明" when unknown.
func Label(code int) string {
	if info, ok := codeTable[code]; ok {
		return info.label
	}
	return "不明"
}

var compass = [...]string{"北", "北東", "東", "南東", "南", "南西", "西", "北西"}

// WindDirection converts degrees into an 8-point compass label.
func WindDirection(deg float64) string {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return compass[int(math.Round(d/45))%8]
}
