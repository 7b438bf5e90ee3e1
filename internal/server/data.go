package server

import "github.com/probablyarth/easyapi-go/internal/catalog"

var categories = []catalog.Category{
	{Slug: "beauty", Name: "Beauty"},
	{Slug: "groceries", Name: "Groceries"},
	{Slug: "laptops", Name: "Laptops"},
	{Slug: "mens-shoes", Name: "Mens Shoes"},
	{Slug: "sunglasses", Name: "Sunglasses"},
}

var products = []catalog.Product{
	{ID: 1, Title: "Essence Mascara Lash Princess", Category: "beauty", Brand: "Essence", Price: 9.99, Rating: 4.94},
	{ID: 2, Title: "Eyeshadow Palette with Mirror", Category: "beauty", Brand: "Glamour Beauty", Price: 19.99, Rating: 3.28},
	{ID: 3, Title: "Powder Canister", Category: "beauty", Brand: "Velvet Touch", Price: 14.99, Rating: 3.82},
	{ID: 16, Title: "Apple", Category: "groceries", Price: 1.99, Rating: 4.19},
	{ID: 17, Title: "Beef Steak", Category: "groceries", Price: 12.99, Rating: 4.47},
	{ID: 18, Title: "Cat Food", Category: "groceries", Price: 8.99, Rating: 3.13},
	{ID: 78, Title: "Apple MacBook Pro 14 Inch Space Grey", Category: "laptops", Brand: "Apple", Price: 1999.99, Rating: 3.65},
	{ID: 79, Title: "Asus Zenbook Pro Dual Screen Laptop", Category: "laptops", Brand: "Asus", Price: 1799.99, Rating: 4.08},
	{ID: 83, Title: "Nike Air Jordan 1 Red And Black", Category: "mens-shoes", Brand: "Nike", Price: 149.99, Rating: 4.77},
	{ID: 84, Title: "Nike Baseball Cleats", Category: "mens-shoes", Brand: "Nike", Price: 79.99, Rating: 3.88},
	{ID: 85, Title: "Puma Future Rider Trainers", Category: "mens-shoes", Brand: "Puma", Price: 89.99, Rating: 4.9},
	{ID: 160, Title: "Black Sun Glasses", Category: "sunglasses", Price: 29.99, Rating: 4.4},
	{ID: 161, Title: "Classic Sun Glasses", Category: "sunglasses", Price: 24.99, Rating: 3.67},
}

func productsIn(category string) []catalog.Product {
	out := []catalog.Product{}
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func knownCategory(slug string) bool {
	for _, c := range categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
