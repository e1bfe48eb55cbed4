package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRunParsesRowsInOrder(t *testing.T) {
	input := strings.Join([]string{
		"id,title,price,description,category,image",
		`2,Casual Shirt,22.30,"Slim fit, breathable",men's clothing,https://img.example/2.jpg`,
		"1,Backpack,109.95,Fits laptops up to 15 inches,men's clothing,https://img.example/1.jpg",
	}, "\n")

	products, err := NewCSVImporter(strings.NewReader(input)).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	// File order is preserved, not id order.
	if products[0].ID != 2 || products[1].ID != 1 {
		t.Fatalf("unexpected order: %d, %d", products[0].ID, products[1].ID)
	}
	first := products[0]
	if first.Title != "Casual Shirt" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if !first.Price.Equal(decimal.RequireFromString("22.30")) {
		t.Fatalf("unexpected price %s", first.Price)
	}
	if first.Description != "Slim fit, breathable" {
		t.Fatalf("unexpected description %q", first.Description)
	}
	if first.Category != "men's clothing" {
		t.Fatalf("unexpected category %q", first.Category)
	}
	if first.Image != "https://img.example/2.jpg" {
		t.Fatalf("unexpected image %q", first.Image)
	}
}

func TestRunHeaderOrderDoesNotMatter(t *testing.T) {
	input := strings.Join([]string{
		"title,id,image,price,category,description",
		"Backpack,1,https://img.example/1.jpg,109.95,bags,Roomy",
	}, "\n")

	products, err := NewCSVImporter(strings.NewReader(input)).Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(products) != 1 || products[0].ID != 1 || products[0].Title != "Backpack" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestRunRejectsBadRows(t *testing.T) {
	cases := []struct {
		name string
		rows string
		want string
	}{
		{
			name: "non numeric id",
			rows: "abc,Backpack,109.95,,,",
			want: "invalid id",
		},
		{
			name: "missing title",
			rows: "1,,109.95,,,",
			want: "missing title",
		},
		{
			name: "unparsable price",
			rows: "1,Backpack,free,,,",
			want: "invalid price",
		},
		{
			name: "negative price",
			rows: "1,Backpack,-5.00,,,",
			want: "negative price",
		},
		{
			name: "duplicate id",
			rows: "1,Backpack,109.95,,,\n1,Shirt,22.30,,,",
			want: "duplicate product id",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "id,title,price,description,category,image\n" + tc.rows
			_, err := NewCSVImporter(strings.NewReader(input)).Run()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}
