package maturity

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrCalculation is returned for numeric faults other than a missing rate,
// e.g. a non-finite rate or an unknown category.
var ErrCalculation = errors.New("maturity calculation failed")

type Category string

const (
	CategoryDeposit Category = "deposit" // 정기예금, lump sum
	CategorySavings Category = "savings" // 적금, monthly contributions
)

// ParseCategory normalizes user or query input into a Category.
func ParseCategory(raw string) (Category, bool) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "deposit", "예금", "정기예금":
		return CategoryDeposit, true
	case "savings", "saving", "적금", "정기적금":
		return CategorySavings, true
	}
	return "", false
}

const (
	// 이자소득세 15.4%, withheld once at maturity
	withholdingTaxRate = 0.154
	// fixed 12-month term
	TermMonths = 12
)

// Result is the maturity breakdown for one product. Principal is the lump
// sum for deposits and the monthly contribution for savings.
type Result struct {
	ProductName    string
	Category       Category
	RatePercent    float64
	Principal      int64
	TotalPrincipal float64
	Interest       float64
	Tax            float64
	Net            float64
}

// Calculator computes simple-interest maturity values using a pluggable
// rate-extraction strategy.
type Calculator struct {
	extractor RateExtractor
}

func New(extractor RateExtractor) *Calculator {
	return &Calculator{extractor: extractor}
}

// Default uses the 연 N.NN% prose scan.
func Default() *Calculator {
	return New(AnnualRateExtractor{})
}

// Compute finds the rate quoted for productName inside recommendation and
// returns the post-tax maturity breakdown. Pure function of its inputs.
func (c *Calculator) Compute(productName string, principal int64, recommendation string, category Category) (*Result, error) {
	rate, err := c.extractor.Extract(productName, recommendation)
	if err != nil {
		return nil, err
	}

	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: rate %v is not finite", ErrCalculation, rate)
	}

	fraction := rate / 100
	p := float64(principal)

	var totalPrincipal, interest float64
	switch category {
	case CategoryDeposit:
		totalPrincipal = p
		interest = p * fraction
	case CategorySavings:
		totalPrincipal = p * TermMonths
		// contribution k earns for 13-k months; the series sums to 78/12 years
		interest = p * fraction * (TermMonths * (TermMonths + 1) / 2) / TermMonths
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrCalculation, category)
	}

	tax := interest * withholdingTaxRate
	net := totalPrincipal + interest - tax

	if math.IsNaN(net) || math.IsInf(net, 0) {
		return nil, fmt.Errorf("%w: result is not finite", ErrCalculation)
	}

	return &Result{
		ProductName:    productName,
		Category:       category,
		RatePercent:    rate,
		Principal:      principal,
		TotalPrincipal: totalPrincipal,
		Interest:       interest,
		Tax:            tax,
		Net:            net,
	}, nil
}

var korean = message.NewPrinter(language.Korean)

// Format renders the breakdown for direct display in a chat transcript.
// All figures are rounded to whole won for display only.
func (r *Result) Format() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "'%s' 만기 예상 결과입니다. (연 %.2f%%, %d개월)\n", r.ProductName, r.RatePercent, TermMonths)

	if r.Category == CategorySavings {
		fmt.Fprintf(&b, "- 월 납입액: %s\n", formatWon(float64(r.Principal)))
		fmt.Fprintf(&b, "- 총 납입액: %s\n", formatWon(r.TotalPrincipal))
	} else {
		fmt.Fprintf(&b, "- 예치 원금: %s\n", formatWon(r.TotalPrincipal))
	}

	fmt.Fprintf(&b, "- 세전 이자: %s\n", formatWon(r.Interest))
	fmt.Fprintf(&b, "- 이자소득세(15.4%%): %s\n", formatWon(r.Tax))
	fmt.Fprintf(&b, "- 세후 수령액: %s", formatWon(r.Net))

	return b.String()
}

func formatWon(v float64) string {
	return korean.Sprintf("%d원", int64(math.Round(v)))
}
