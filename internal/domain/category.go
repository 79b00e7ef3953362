package domain

import (
	"fmt"
	"sort"
	"time"
)

// Category is a (name, subcategory) pair of the catalog taxonomy.
type Category struct {
	ID          int64
	Name        string
	Subcategory string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewCategory(name, subcategory, description string) *Category {
	if description == "" {
		description = DefaultCategoryDescription(name, subcategory)
	}

	return &Category{
		Name:        name,
		Subcategory: subcategory,
		Description: description,
		Active:      true,
	}
}

// taxonomy lists the subcategories allowed for each category name.
var taxonomy = map[string][]string{
	"Split":    {"Residential", "Commercial", "Industrial"},
	"Window":   {"Compact", "Standard"},
	"Central":  {"Ducted", "Cassette", "Floor-Ceiling"},
	"Portable": {"Domestic", "Office"},
}

// CategoryNames returns the known category names in alphabetical order.
func CategoryNames() []string {
	names := make([]string, 0, len(taxonomy))
	for name := range taxonomy {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subcategories returns the subcategories of name, or nil for an unknown name.
func Subcategories(name string) []string {
	subs, ok := taxonomy[name]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

func IsValidSubcategory(name, subcategory string) bool {
	for _, s := range taxonomy[name] {
		if s == subcategory {
			return true
		}
	}
	return false
}

func DefaultCategoryDescription(name, subcategory string) string {
	return fmt.Sprintf("Air conditioners %s %s", name, subcategory)
}
