// Package prompt turns a resolved cart into the text sent to the image model.
package prompt

import (
	"fmt"
	"strings"
)

const (
	lead   = "As a wonderful florist create a bouquet containing exactly "
	suffix = "High quality, photorealistic, studio lighting, white background, elegant composition."
)

// Flower is a flower or foliage entry with its requested quantity.
type Flower struct {
	Name     string
	Quantity int
}

// Detail is the resolved cart content the prompt is built from.
type Detail struct {
	Flowers []Flower
	Papers  []string
	Ribbons []string
}

// Build renders the prompt. It never fails: an empty flower list still yields
// a complete sentence.
func Build(detail Detail) string {
	var b strings.Builder
	b.WriteString(lead)

	parts := make([]string, 0, len(detail.Flowers))
	for _, f := range detail.Flowers {
		parts = append(parts, fmt.Sprintf("%d %s", f.Quantity, strings.ToLower(strings.TrimSpace(f.Name))))
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(". ")

	if papers := names(detail.Papers); papers != "" {
		b.WriteString("Wrapped in " + papers + ". ")
	}
	if ribbons := names(detail.Ribbons); ribbons != "" {
		b.WriteString("Decorated with " + ribbons + ". ")
	}
	b.WriteString(suffix)
	return b.String()
}

func names(values []string) string {
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			clean = append(clean, v)
		}
	}
	return strings.Join(clean, ", ")
}
