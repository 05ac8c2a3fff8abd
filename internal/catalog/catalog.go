package catalog

import (
	"sort"
	"strconv"
	"sync"

	"jaggery_back_end/internal/apperr"
	"jaggery_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Catalog resolves product ids for the cart and lists what the store sells.
type Catalog struct {
	mu       sync.RWMutex
	products map[int]models.Product
}

func New(products ...models.Product) *Catalog {
	c := &Catalog{products: make(map[int]models.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Default is the storefront's jaggery range.
func Default() *Catalog {
	return New(
		models.Product{ID: 1, Title: "Organic Jaggery Block", Description: "Traditional sugarcane jaggery, chemical free", Price: decimal.NewFromInt(120), Weight: "1 kg", Image: "/images/jaggery-block.jpg"},
		models.Product{ID: 2, Title: "Jaggery Powder", Description: "Fine ground jaggery for tea and baking", Price: decimal.NewFromInt(150), Weight: "1 kg", Image: "/images/jaggery-powder.jpg"},
		models.Product{ID: 3, Title: "Jaggery Cubes", Description: "Bite sized cubes, individually portioned", Price: decimal.NewFromInt(180), Weight: "500 g", Image: "/images/jaggery-cubes.jpg"},
		models.Product{ID: 4, Title: "Liquid Jaggery", Description: "Kakvi syrup from fresh cane juice", Price: decimal.NewFromInt(220), Weight: "750 ml", Image: "/images/liquid-jaggery.jpg"},
		models.Product{ID: 5, Title: "Palm Jaggery", Description: "Karupatti from palmyra sap", Price: decimal.NewFromInt(300), Weight: "1 kg", Image: "/images/palm-jaggery.jpg"},
		models.Product{ID: 6, Title: "Family Pack", Description: "Block, powder and cubes together", Price: decimal.NewFromInt(420), Weight: "2.5 kg", Image: "/images/family-pack.jpg"},
	)
}

func (c *Catalog) Lookup(id int) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return models.Product{}, &apperr.NotFoundError{Resource: "product", ID: strconv.Itoa(id)}
	}
	return p, nil
}

// List returns all products ordered by id.
func (c *Catalog) List() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
