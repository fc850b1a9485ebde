package won

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAmount is returned when the input contains no usable numeric token.
var ErrNoAmount = errors.New("no numeric amount found")

const (
	eokMultiplier = 100_000_000 // 억
	manMultiplier = 10_000      // 만
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Parse converts free-form Korean money text into whole won.
//
// The first numeric token is taken (commas stripped first), then the 억 and
// 만 markers each multiply it when present anywhere in the text. The markers
// are checked independently, so "1억 500만원" applies both multipliers to the
// single leading token instead of reading two numbers. Known limitation:
// quote one unit per amount ("1억2000만원" should be typed as "12000만원").
func Parse(text string) (int64, error) {
	cleaned := strings.ReplaceAll(text, ",", "")

	token := numberPattern.FindString(cleaned)
	if token == "" {
		return 0, ErrNoAmount
	}

	amount, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, ErrNoAmount
	}

	if strings.Contains(cleaned, "억") {
		amount *= eokMultiplier
	}
	if strings.Contains(cleaned, "만") {
		amount *= manMultiplier
	}

	// reject non-finite values and anything past the int64 range
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount >= float64(math.MaxInt64) {
		return 0, ErrNoAmount
	}

	return int64(amount), nil
}
