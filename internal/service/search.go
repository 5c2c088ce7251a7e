package service

import (
	"strings"

	"github.com/webstaxinc/agra-sweets/internal/models"
)

// ProductFilter narrows a product list.
// Query matches name or description case-insensitively, plus category text when
// MatchCategoryText is set (admin search). Category is an exact category match.
type ProductFilter struct {
	Query             string
	Category          string
	MatchCategoryText bool
}

// SearchProducts returns the products matching f, keeping catalog order
func SearchProducts(products []models.Product, f ProductFilter) []models.Product {
	q := strings.ToLower(f.Query)
	out := make([]models.Product, 0, len(products))

	for _, p := range products {
		if q != "" {
			hit := strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.Description), q) ||
				(f.MatchCategoryText && strings.Contains(strings.ToLower(p.Category), q))
			if !hit {
				continue
			}
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct categories in first-seen order
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// OrderFilter narrows the admin order list. An empty or "all" status matches every order.
type OrderFilter struct {
	Query  string
	Status string
}

// FilterOrders matches Query against customer name (case-insensitive), order id and phone
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	q := strings.ToLower(f.Query)
	out := make([]models.Order, 0, len(orders))

	for _, o := range orders {
		if f.Query != "" {
			hit := strings.Contains(strings.ToLower(o.CustomerName), q) ||
				strings.Contains(o.ID, f.Query) ||
				strings.Contains(o.CustomerPhone, f.Query)
			if !hit {
				continue
			}
		}
		if f.Status != "" && f.Status != "all" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, o)
	}
	return out
}
