// Package strength rates generated secrets on a 0-5 scale.
package strength

import "unicode/utf8"

// MaxScore is the highest score Score reports.
const MaxScore = 5

var (
	labels = []string{"Very Weak", "Weak", "Fair", "Good", "Strong", "Very Strong"}
	colors = []string{"#ef4444", "#f59e0b", "#eab308", "#22c55e", "#16a34a", "#15803d"}
)

// Score awards one point per satisfied criterion (length of at least 8, 12
// and 16; lowercase; uppercase; digit; any other character) and caps the
// total at MaxScore.
func Score(secret string) int {
	n := utf8.RuneCountInString(secret)

	score := 0
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}
	if n >= 16 {
		score++
	}

	var lower, upper, digit, other bool
	for _, r := range secret {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	for _, ok := range []bool{lower, upper, digit, other} {
		if ok {
			score++
		}
	}

	return min(score, MaxScore)
}

// Rating is a score with its display label and color.
type Rating struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Rate scores secret. ok is false for an empty secret, which gets no
// indicator at all.
func Rate(secret string) (Rating, bool) {
	if secret == "" {
		return Rating{}, false
	}
	score := Score(secret)
	return Rating{Score: score, Label: Label(score), Color: Color(score)}, true
}

// Label returns the display label for score. Scores below 1 read as
// "Very Weak".
func Label(score int) string {
	if score < 1 || score > len(labels) {
		return labels[0]
	}
	return labels[score-1]
}

// Color returns the hex color for score, matching Label.
func Color(score int) string {
	if score < 1 || score > len(colors) {
		return colors[0]
	}
	return colors[score-1]
}
