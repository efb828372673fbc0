package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Product is one line of the cart.
// Quantity is at least 1 while the product is in the cart.
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity" validate:"gte=1"`
}

// ProductInput describes a product being added; the cart owns the quantity.
type ProductInput struct {
	ID       string
	Title    string
	ImageURL string
	Price    float64
}

// LineTotal is price times quantity.
func (p Product) LineTotal() float64 { return p.Price * float64(p.Quantity) }

// Total sums the line totals. Display only.
func Total(products []Product) float64 {
	var t float64
	for _, p := range products {
		t += p.LineTotal()
	}
	return t
}

// Count sums quantities.
func Count(products []Product) int {
	n := 0
	for _, p := range products {
		n += p.Quantity
	}
	return n
}

// ParseProductInput reads "<id> <price> <title...>".
func ParseProductInput(args []string) (ProductInput, error) {
	if len(args) < 3 {
		return ProductInput{}, fmt.Errorf("need id, price and title")
	}
	id := strings.TrimSpace(args[0])
	if id == "" {
		return ProductInput{}, fmt.Errorf("empty id")
	}
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return ProductInput{}, fmt.Errorf("bad price: %s", args[1])
	}
	title := strings.TrimSpace(strings.Join(args[2:], " "))
	if title == "" {
		return ProductInput{}, fmt.Errorf("empty title")
	}
	return ProductInput{ID: id, Title: title, Price: price}, nil
}
