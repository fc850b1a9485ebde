package maturity

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrRateNotFound is returned when the recommendation text quotes no rate
// for the named product.
var ErrRateNotFound = errors.New("interest rate not found for product")

// RateExtractor locates the annual rate quoted for a product inside
// recommendation prose. Implementations differ in how the upstream model is
// expected to format rates, so phrasing drift only costs a new extractor.
type RateExtractor interface {
	Extract(productName, text string) (float64, error)
}

const decimalNumber = `(\d+(?:\.\d+)?)`

// AnnualRateExtractor scans for the "연 N.NN%" shape the recommendation
// prompt asks for, anchored at the first occurrence of the product name.
type AnnualRateExtractor struct{}

func (AnnualRateExtractor) Extract(productName, text string) (float64, error) {
	return extractWith(`연\s*`+decimalNumber+`\s*%`, productName, text)
}

// MarkupExtractor reads an explicit "[금리: N.NN%]" marker instead of free
// prose, for upstreams instructed to emit structured markup.
type MarkupExtractor struct{}

func (MarkupExtractor) Extract(productName, text string) (float64, error) {
	return extractWith(`\[금리:\s*`+decimalNumber+`\s*%\]`, productName, text)
}

func extractWith(ratePattern, productName, text string) (float64, error) {
	if productName == "" {
		return 0, ErrRateNotFound
	}

	re, err := regexp.Compile(`(?s)` + regexp.QuoteMeta(productName) + `.*?` + ratePattern)
	if err != nil {
		return 0, ErrRateNotFound
	}

	match := re.FindStringSubmatch(text)
	if match == nil {
		return 0, ErrRateNotFound
	}

	rate, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, ErrRateNotFound
	}

	return rate, nil
}
