package catalog

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// AllCategories matches every product in List.
const AllCategories = "All"

// Product is a storefront listing
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	Featured      bool             `json:"featured"`
	Popular       bool             `json:"popular"`
	Tags          []string         `json:"tags"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Category string
	Featured bool
	Popular  bool
}

// Catalog is a read-only product lookup, safe for concurrent use.
type Catalog struct {
	products   map[string]Product
	order      []string
	categories []string
}

// New builds a catalog from products. Later duplicates of an ID replace earlier ones.
func New(products []Product, categories []string) *Catalog {
	c := &Catalog{
		products:   make(map[string]Product, len(products)),
		categories: append([]string(nil), categories...),
	}
	for _, p := range products {
		if _, exists := c.products[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		c.products[p.ID] = p.clone()
	}
	return c
}

// Default returns the storefront's built-in catalog.
func Default() *Catalog {
	return New(defaultProducts(), defaultCategories)
}

func (c *Catalog) Get(id string) (Product, error) {
	p, ok := c.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p.clone(), nil
}

// List returns matching products in catalog order.
func (c *Catalog) List(f Filter) []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.products[id]
		if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
			continue
		}
		if f.Featured && !p.Featured {
			continue
		}
		if f.Popular && !p.Popular {
			continue
		}
		out = append(out, p.clone())
	}
	return out
}

// Categories returns the browsable categories, "All" first.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// ByPrice sorts products cheapest first, keeping catalog order for ties.
func ByPrice(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Price.LessThan(products[j].Price)
	})
}

// clone detaches the slice and pointer fields so callers cannot reach catalog state.
func (p Product) clone() Product {
	p.Tags = append([]string(nil), p.Tags...)
	if p.OriginalPrice != nil {
		original := *p.OriginalPrice
		p.OriginalPrice = &original
	}
	return p
}
