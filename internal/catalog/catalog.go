// Package catalog reshapes Square catalog items into the service list the
// pricing page renders: flat services with dollar prices, plus the studio's
// fixed body-area grouping.
package catalog

import (
	"strings"

	"github.com/smoothbar/studio-backend/internal/square"
)

// MensMarkup is the flat dollar markup applied to men's pricing for services
// that offer it.
const MensMarkup = 15

// Variation is one priced option of a service.
type Variation struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"` // dollars
}

// Service is a waxing service as the frontend consumes it.
type Service struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Variations  []Variation `json:"variations"`
}

// Category is one body-area group of the pricing page.
type Category struct {
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// categoryOrder fixes the display order of the pricing page.
var categoryOrder = []string{
	"Face & Brows",
	"Upper Body",
	"Lower Body",
	"Intimate Areas",
	"Treatments",
}

// categoryMap groups service names by body area.
var categoryMap = map[string][]string{
	"Face & Brows": {
		"Eyebrows", "1 Face zone", "Full face", "Brow tinting", "Lash tint", "Nose",
	},
	"Upper Body": {
		"Underarms", "Full arms", "Forearms", "Chest", "Stomach", "Full chest",
		"Half stomach", "Full back", "Half back", "Neck line",
	},
	"Lower Body": {
		"Full legs", "Upper legs", "Lower legs", "Inner thighs", "Navel",
	},
	"Intimate Areas": {
		"Bikini line", "French line", "Brazilian", "Bum cheeks",
		"Between the cheeks",
	},
	"Treatments": {
		"Ingrown hair treatment", "Ingrown extraction", "Serum",
	},
}

// womenOnly lists services with no men's pricing.
var womenOnly = map[string]bool{
	"Brazilian": true,
}

// FromCatalogObjects flattens Square ITEM objects into services. Non-ITEM
// objects and entries without item data are skipped; a variation without a
// price renders as 0.
func FromCatalogObjects(objects []square.CatalogObject) []Service {
	services := make([]Service, 0, len(objects))
	for _, obj := range objects {
		if obj.Type != "ITEM" || obj.ItemData == nil {
			continue
		}
		item := obj.ItemData

		variations := make([]Variation, 0, len(item.Variations))
		for _, v := range item.Variations {
			if v.ItemVariationData == nil {
				continue
			}
			price := 0.0
			if v.ItemVariationData.PriceMoney != nil {
				price = float64(v.ItemVariationData.PriceMoney.Amount) / 100
			}
			variations = append(variations, Variation{
				ID:    v.ID,
				Name:  v.ItemVariationData.Name,
				Price: price,
			})
		}

		services = append(services, Service{
			ID:          obj.ID,
			Name:        item.Name,
			Description: item.Description,
			Category:    CategoryFor(item.Name),
			Variations:  variations,
		})
	}
	return services
}

// CategoryFor maps a service name to its body-area group, or "" when the
// service is not part of the pricing page.
func CategoryFor(name string) string {
	for category, names := range categoryMap {
		for _, n := range names {
			if strings.EqualFold(n, name) {
				return category
			}
		}
	}
	return ""
}

// WomenOnly reports whether a service has no men's pricing.
func WomenOnly(name string) bool {
	return womenOnly[name]
}

// MensPrice returns the men's price for a service variation, or ok=false for
// women-only services.
func MensPrice(serviceName string, price float64) (float64, bool) {
	if WomenOnly(serviceName) {
		return 0, false
	}
	return price + MensMarkup, true
}

// Grouped arranges services into the fixed category order. Uncategorized
// services are dropped, matching the pricing page, and empty categories are
// omitted.
func Grouped(services []Service) []Category {
	byName := make(map[string][]Service)
	for _, svc := range services {
		if svc.Category == "" {
			continue
		}
		byName[svc.Category] = append(byName[svc.Category], svc)
	}

	grouped := make([]Category, 0, len(categoryOrder))
	for _, name := range categoryOrder {
		if len(byName[name]) == 0 {
			continue
		}
		grouped = append(grouped, Category{Name: name, Services: byName[name]})
	}
	return grouped
}
