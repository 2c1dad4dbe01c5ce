package catalog

import "github.com/shopspring/decimal"

var defaultCategories = []string{AllCategories, "Audio", "Wearables", "Computers", "Mobile", "Accessories"}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func original(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func defaultProducts() []Product {
	return []Product{
		{
			ID:            "1",
			Name:          "Premium Wireless Headphones",
			Description:   "Experience crystal-clear audio with our premium wireless headphones featuring active noise cancellation and 30-hour battery life.",
			Price:         price(299),
			OriginalPrice: original(399),
			Image:         "/assets/product-headphones.jpg",
			Category:      "Audio",
			Rating:        4.8,
			Reviews:       1247,
			Featured:      true,
			Popular:       true,
			Tags:          []string{"wireless", "noise-cancelling", "premium"},
		},
		{
			ID:            "2",
			Name:          "Smart Fitness Watch",
			Description:   "Track your fitness goals with our advanced smartwatch featuring heart rate monitoring, GPS, and 7-day battery life.",
			Price:         price(249),
			OriginalPrice: original(349),
			Image:         "/assets/product-smartwatch.jpg",
			Category:      "Wearables",
			Rating:        4.6,
			Reviews:       892,
			Featured:      true,
			Popular:       true,
			Tags:          []string{"fitness", "GPS", "health"},
		},
		{
			ID:            "3",
			Name:          "Ultra-Thin Laptop",
			Description:   "Powerful performance in an ultra-thin design. Perfect for professionals who need portability without compromising on performance.",
			Price:         price(1299),
			OriginalPrice: original(1599),
			Image:         "/assets/product-laptop.jpg",
			Category:      "Computers",
			Rating:        4.9,
			Reviews:       563,
			Featured:      true,
			Tags:          []string{"professional", "portable", "high-performance"},
		},
		{
			ID:            "4",
			Name:          "5G Smartphone Pro",
			Description:   "Experience the future with our flagship smartphone featuring 5G connectivity, triple camera system, and all-day battery.",
			Price:         price(899),
			OriginalPrice: original(1099),
			Image:         "/assets/product-smartphone.jpg",
			Category:      "Mobile",
			Rating:        4.7,
			Reviews:       2103,
			Popular:       true,
			Tags:          []string{"5G", "camera", "flagship"},
		},
	}
}
