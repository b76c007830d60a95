// Package parser turns product card markup into typed records.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-shop/models"
)

const (
	titleSelector       = "a.title"
	descriptionSelector = ".description"
	priceSelector       = ".price"
	starSelector        = "span.ws-icon-star"
	reviewSelector      = "p.review-count"
)

// ParseProduct extracts one product from a card selection. Extraction is
// atomic: any missing sub-element or unparsable value fails the whole card.
func ParseProduct(card *goquery.Selection) (*models.Product, error) {
	titleLink := card.Find(titleSelector)
	if titleLink.Length() == 0 {
		return nil, fmt.Errorf("card missing title link %q", titleSelector)
	}
	title, ok := titleLink.First().Attr("title")
	if !ok {
		return nil, fmt.Errorf("title link missing title attribute")
	}

	descBlock := card.Find(descriptionSelector)
	if descBlock.Length() == 0 {
		return nil, fmt.Errorf("card missing description block %q", descriptionSelector)
	}
	description := NormalizeDescription(descBlock.First().Text())

	priceBlock := card.Find(priceSelector)
	if priceBlock.Length() == 0 {
		return nil, fmt.Errorf("card missing price block %q for %s", priceSelector, title)
	}
	price, err := ParsePrice(priceBlock.First().Text())
	if err != nil {
		return nil, fmt.Errorf("parse price for %s: %w", title, err)
	}

	rating := card.Find(starSelector).Length()

	reviewCaption := card.Find(reviewSelector)
	if reviewCaption.Length() == 0 {
		return nil, fmt.Errorf("card missing review caption %q for %s", reviewSelector, title)
	}
	numOfReviews, err := ParseReviewCount(reviewCaption.First().Text())
	if err != nil {
		return nil, fmt.Errorf("parse review count for %s: %w", title, err)
	}

	return &models.Product{
		Title:        title,
		Description:  description,
		Price:        price,
		Rating:       rating,
		NumOfReviews: numOfReviews,
	}, nil
}

// NormalizeDescription replaces non-breaking spaces with regular spaces.
func NormalizeDescription(text string) string {
	return strings.ReplaceAll(text, " ", " ")
}

// ParsePrice strips the leading currency marker and parses a decimal price.
func ParsePrice(text string) (float64, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(text), "$")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", text, err)
	}
	return price, nil
}

// ParseReviewCount strips the trailing unit suffix and parses the count.
func ParseReviewCount(text string) (int, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(text), " reviews")
	count, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("review count %q is not an integer: %w", text, err)
	}
	return count, nil
}

// ValidateProduct ensures the extractor captured the required fields.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("product missing title")
	}
	if p.NumOfReviews < 0 {
		return fmt.Errorf("negative review count for %s", p.Title)
	}
	return nil
}
