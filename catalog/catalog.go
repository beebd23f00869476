package catalog

import (
	"errors"

	"github.com/lazharichir/zigo/domain"
)

var ErrVendorNotFound = errors.New("catalog vendor not found")

type Review struct {
	ID     string  `json:"id"`
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

// Price is the quoted price of a catalog vendor
type Price struct {
	Base float64 `json:"base"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Vendor is a bookable service provider listed in the catalog
type Vendor struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     domain.Category `json:"category"`
	Rating       float64         `json:"rating"`
	Price        Price           `json:"price"`
	Reviews      []Review        `json:"reviews"`
	Availability []string        `json:"availability"`
}

// Booking turns a catalog listing into a vendor booking at base price
func (v Vendor) Booking() domain.NewVendor {
	return domain.NewVendor{
		Name:          v.Name,
		Category:      v.Category,
		Price:         v.Price.Base,
		PaymentStatus: domain.PaymentPending,
	}
}

// IsAvailable reports whether the vendor lists the given day (YYYY-MM-DD)
func (v Vendor) IsAvailable(day string) bool {
	for _, d := range v.Availability {
		if d == day {
			return true
		}
	}
	return false
}

func (v Vendor) clone() Vendor {
	out := v
	out.Reviews = append([]Review(nil), v.Reviews...)
	out.Availability = append([]string(nil), v.Availability...)
	return out
}

// Catalog is a read-only list of vendors. It is built once and never written.
type Catalog struct {
	vendors []Vendor
}

// New builds a catalog from the given vendors, keeping their order
func New(vendors []Vendor) *Catalog {
	c := &Catalog{vendors: make([]Vendor, len(vendors))}
	for i, v := range vendors {
		c.vendors[i] = v.clone()
	}
	return c
}

// Default returns the built-in vendor catalog
func Default() *Catalog {
	return New(defaultVendors)
}

func (c *Catalog) All() []Vendor {
	out := make([]Vendor, len(c.vendors))
	for i, v := range c.vendors {
		out[i] = v.clone()
	}
	return out
}

// ByCategory returns the vendors of a category
func (c *Catalog) ByCategory(category domain.Category) []Vendor {
	out := []Vendor{}
	for _, v := range c.vendors {
		if v.Category == category {
			out = append(out, v.clone())
		}
	}
	return out
}

func (c *Catalog) Get(id string) (Vendor, error) {
	for _, v := range c.vendors {
		if v.ID == id {
			return v.clone(), nil
		}
	}
	return Vendor{}, ErrVendorNotFound
}

// AverageRating is the mean of a vendor's review ratings, or its listed
// rating when it has no reviews
func (c *Catalog) AverageRating(id string) (float64, error) {
	v, err := c.Get(id)
	if err != nil {
		return 0, err
	}
	if len(v.Reviews) == 0 {
		return v.Rating, nil
	}
	sum := 0.0
	for _, r := range v.Reviews {
		sum += r.Rating
	}
	return sum / float64(len(v.Reviews)), nil
}
