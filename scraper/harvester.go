package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-shop/models"
	"github.com/aluiziolira/go-scrape-shop/parser"
)

const cardSelector = ".product-wrapper"

// Harvest locates every product card in materialized page markup and
// extracts each in document order. The first card that fails extraction
// aborts the whole harvest.
func Harvest(html string) ([]*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page markup: %w", err)
	}

	var products []*models.Product
	var harvestErr error
	doc.Find(cardSelector).EachWithBreak(func(i int, card *goquery.Selection) bool {
		product, err := parser.ParseProduct(card)
		if err != nil {
			harvestErr = ErrExtraction{Err: fmt.Errorf("card %d: %w", i, err)}
			return false
		}
		products = append(products, product)
		return true
	})
	if harvestErr != nil {
		return nil, harvestErr
	}
	return products, nil
}
