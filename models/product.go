// Package models defines data structures for the scraper.
package models

import (
	"strconv"
	"time"
)

// Product represents one product card from a listing page.
type Product struct {
	Title        string  `csv:"title" json:"title"`
	Description  string  `csv:"description" json:"description"`
	Price        float64 `csv:"price" json:"price"`
	Rating       int     `csv:"rating" json:"rating"`
	NumOfReviews int     `csv:"num_of_reviews" json:"num_of_reviews"`
}

// Header returns the export column order. It must stay aligned with the
// field order of Product and with Product.Record.
func Header() []string {
	return []string{"title", "description", "price", "rating", "num_of_reviews"}
}

// Record renders the product as a CSV row in Header order. Numbers are
// formatted locale-independently.
func (p *Product) Record() []string {
	return []string{
		p.Title,
		p.Description,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Rating),
		strconv.Itoa(p.NumOfReviews),
	}
}

// Target pairs one category listing URL with its output file.
type Target struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	OutFile string `yaml:"out_file"`
}

// RunResult holds the overall result of a scraping run.
type RunResult struct {
	StartTime       time.Time
	EndTime         time.Time
	TargetCount     int
	ProductCount    int
	ExpansionCount  int
	ProductsPerFile map[string]int
}
