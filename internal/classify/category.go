package classify

import (
	"strings"

	"github.com/deskhand-io/deskhand/pkg/domain"
)

// DetectCategory counts keyword substring matches per category and returns
// the category with the strictly greatest count. Ties keep the
// earliest-declared category; zero matches yield general. The iteration
// order over config is stable, so detection is fully deterministic.
func (c *Classifier) DetectCategory(text string) domain.Category {
	lower := strings.ToLower(text)

	best := domain.CategoryGeneral
	bestCount := 0
	for _, entry := range c.cfg.Categories {
		count := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		if count > bestCount {
			best = entry.Category
			bestCount = count
		}
	}
	return best
}
