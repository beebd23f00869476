package catalog

import (
	"time"

	"github.com/lazharichir/zigo/domain"
)

var defaultVendors = []Vendor{
	{
		ID:          "v1",
		Name:        "Cairo Palace",
		Description: "Luxury venue with stunning Nile views",
		Category:    domain.CategoryVenue,
		Rating:      4.8,
		Price:       Price{Base: 8000, Min: 8000, Max: 15000},
		Reviews: []Review{
			{ID: "r1", Author: "Mohamed", Rating: 5, Text: "Amazing venue, very professional staff!"},
			{ID: "r2", Author: "Laila", Rating: 4.5, Text: "Beautiful place, slightly expensive but worth it"},
		},
		Availability: []string{"2025-05-24", "2025-05-25", "2025-06-01", "2025-06-02"},
	},
	{
		ID:          "v2",
		Name:        "Nile Gardens",
		Description: "Beautiful outdoor venue with gardens",
		Category:    domain.CategoryVenue,
		Rating:      4.5,
		Price:       Price{Base: 5000, Min: 5000, Max: 9000},
		Reviews: []Review{
			{ID: "r3", Author: "Ahmed", Rating: 4.5, Text: "Beautiful gardens and great service"},
			{ID: "r4", Author: "Fatma", Rating: 4.0, Text: "Lovely atmosphere but limited indoor options"},
		},
		Availability: []string{"2025-05-22", "2025-05-29", "2025-06-05", "2025-06-12"},
	},
	{
		ID:          "v3",
		Name:        "Royal Feast",
		Description: "Premium catering service for all events",
		Category:    domain.CategoryCatering,
		Rating:      4.9,
		Price:       Price{Base: 3500, Min: 3500, Max: 7000},
		Reviews: []Review{
			{ID: "r5", Author: "Omar", Rating: 5, Text: "The food was incredible, our guests loved it!"},
			{ID: "r6", Author: "Noor", Rating: 4.8, Text: "Excellent variety and presentation"},
		},
		Availability: []string{"2025-05-20", "2025-05-21", "2025-05-22", "2025-05-23"},
	},
	{
		ID:          "v4",
		Name:        "Alexandria Lens",
		Description: "Award-winning photography service",
		Category:    domain.CategoryPhotography,
		Rating:      4.7,
		Price:       Price{Base: 2500, Min: 2500, Max: 4500},
		Reviews: []Review{
			{ID: "r7", Author: "Leila", Rating: 4.7, Text: "Captured our special day beautifully"},
			{ID: "r8", Author: "Karim", Rating: 4.5, Text: "Professional and creative team"},
		},
		Availability: []string{"2025-05-25", "2025-05-26", "2025-06-01", "2025-06-07"},
	},
	{
		ID:          "v5",
		Name:        "Pharaoh's Band",
		Description: "Traditional and modern music ensemble",
		Category:    domain.CategoryEntertainment,
		Rating:      4.6,
		Price:       Price{Base: 3000, Min: 3000, Max: 5000},
		Reviews: []Review{
			{ID: "r9", Author: "Hossam", Rating: 4.6, Text: "Great music selection and energy"},
			{ID: "r10", Author: "Yasmin", Rating: 4.5, Text: "Everyone was dancing all night!"},
		},
		Availability: []string{"2025-05-23", "2025-05-30", "2025-06-06", "2025-06-13"},
	},
	{
		ID:          "v6",
		Name:        "Magic Hatim",
		Description: "Egypt's premier magician and entertainer",
		Category:    domain.CategoryEntertainment,
		Rating:      4.8,
		Price:       Price{Base: 2000, Min: 2000, Max: 3500},
		Reviews: []Review{
			{ID: "r11", Author: "Samira", Rating: 5, Text: "Absolutely amazing tricks, impressed everyone!"},
			{ID: "r12", Author: "Tarek", Rating: 4.7, Text: "Very entertaining and professional"},
		},
		Availability: []string{"2025-05-24", "2025-05-25", "2025-06-01", "2025-06-08"},
	},
	{
		ID:          "v7",
		Name:        "Desert Rose Decor",
		Description: "Elegant decorations for all occasions",
		Category:    domain.CategoryDecoration,
		Rating:      4.7,
		Price:       Price{Base: 1800, Min: 1800, Max: 4000},
		Reviews: []Review{
			{ID: "r13", Author: "Dina", Rating: 4.8, Text: "The decorations exceeded our expectations!"},
			{ID: "r14", Author: "Amr", Rating: 4.5, Text: "Beautiful setups and attention to detail"},
		},
		Availability: []string{"2025-05-20", "2025-05-21", "2025-05-27", "2025-05-28"},
	},
}

// SeedEvents returns the events a fresh session starts with
func SeedEvents() []domain.Event {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	return []domain.Event{
		{
			ID:   "event-1",
			Name: "Birthday Party",
			Date: day(2025, time.June, 15),
			Type: "birthday",
			Vendors: []domain.Vendor{
				{ID: "vendor-1", Name: "Cairo Gardens", Category: domain.CategoryVenue, Price: 5000, PaymentStatus: domain.PaymentDeposited},
				{ID: "vendor-2", Name: "Sweet Delights", Category: domain.CategoryCatering, Price: 2500, PaymentStatus: domain.PaymentPending},
			},
			Guests: []domain.Guest{
				{ID: "guest-1", Name: "Ahmed Hassan", Phone: "+20 101 234 5678", Status: domain.GuestConfirmed},
				{ID: "guest-2", Name: "Sara Ali", Phone: "+20 112 345 6789", Status: domain.GuestPending},
			},
			CompletedCategories: domain.CompletedCategories{domain.CategoryVenue: true, domain.CategoryCatering: true},
		},
		{
			ID:   "e1",
			Name: "Anniversary Celebration",
			Date: day(2025, time.June, 15),
			Type: "anniversary",
			Vendors: []domain.Vendor{
				{ID: "v1", Name: "Cairo Palace", Category: domain.CategoryVenue, Price: 8000, PaymentStatus: domain.PaymentDeposited},
				{ID: "v3", Name: "Royal Feast", Category: domain.CategoryCatering, Price: 3500, PaymentStatus: domain.PaymentPending},
			},
			Guests: []domain.Guest{
				{ID: "g1", Name: "Ahmed Hassan", Phone: "+20 101 234 5678", Status: domain.GuestConfirmed},
				{ID: "g2", Name: "Sara Ali", Phone: "+20 112 345 6789", Status: domain.GuestPending},
			},
			CompletedCategories: domain.CompletedCategories{domain.CategoryVenue: true, domain.CategoryCatering: true},
		},
	}
}
