package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalsAndCount(t *testing.T) {
	products := []Product{
		{ID: "1", Price: 10, Quantity: 2},
		{ID: "2", Price: 2.5, Quantity: 4},
	}
	assert.InDelta(t, 30.0, Total(products), 1e-9)
	assert.Equal(t, 6, Count(products))
	assert.InDelta(t, 20.0, products[0].LineTotal(), 1e-9)
}

func TestTotalsEmpty(t *testing.T) {
	assert.Zero(t, Total(nil))
	assert.Zero(t, Count(nil))
}

func TestParseProductInput(t *testing.T) {
	in, err := ParseProductInput([]string{"1", "10.5", "Running", "shoe"})
	assert.NoError(t, err)
	assert.Equal(t, ProductInput{ID: "1", Title: "Running shoe", Price: 10.5}, in)

	bad := [][]string{
		{"1", "10"},
		{" ", "1", "x"},
		{"1", "ten", "x"},
		{"1", "-1", "x"},
		{"1", "NaN", "x"},
		{"1", "1", " "},
	}
	for _, args := range bad {
		_, err := ParseProductInput(args)
		assert.Error(t, err, "%v", args)
	}
}
