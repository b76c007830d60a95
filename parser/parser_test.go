package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-shop/models"
)

const ipadCard = `
<div class="product-wrapper card-body">
	<h4 class="price float-end pull-right">$646.58</h4>
	<h4><a href="/test-sites/e-commerce/more/product/199" class="title" title="Apple iPad Air">Apple iPad Air</a></h4>
	<p class="description card-text">Wi-Fi,&nbsp;64GB, Silver</p>
	<div class="ratings">
		<p class="review-count float-end">41 reviews</p>
		<p data-rating="3">
			<span class="ws-icon ws-icon-star"></span>
			<span class="ws-icon ws-icon-star"></span>
			<span class="ws-icon ws-icon-star"></span>
		</p>
	</div>
</div>`

func cardSelection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse card markup: %v", err)
	}
	sel := doc.Find(".product-wrapper")
	if sel.Length() != 1 {
		t.Fatalf("expected one card in fixture, got %d", sel.Length())
	}
	return sel.First()
}

func TestParseProduct(t *testing.T) {
	product, err := ParseProduct(cardSelection(t, ipadCard))
	if err != nil {
		t.Fatalf("ParseProduct() error = %v", err)
	}

	want := models.Product{
		Title:        "Apple iPad Air",
		Description:  "Wi-Fi, 64GB, Silver",
		Price:        646.58,
		Rating:       3,
		NumOfReviews: 41,
	}
	if *product != want {
		t.Fatalf("ParseProduct() = %+v, want %+v", *product, want)
	}
}

func TestParseProductDeterministic(t *testing.T) {
	first, err := ParseProduct(cardSelection(t, ipadCard))
	if err != nil {
		t.Fatalf("first ParseProduct() error = %v", err)
	}
	second, err := ParseProduct(cardSelection(t, ipadCard))
	if err != nil {
		t.Fatalf("second ParseProduct() error = %v", err)
	}
	if *first != *second {
		t.Fatalf("extraction not deterministic: %+v vs %+v", *first, *second)
	}
}

func TestParseProductFailsAtomically(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "missing title link",
			html: `<div class="product-wrapper">
				<h4 class="price">$10.00</h4>
				<p class="description">desc</p>
				<p class="review-count">1 reviews</p>
			</div>`,
		},
		{
			name: "title link without title attribute",
			html: `<div class="product-wrapper">
				<a class="title" href="/p/1">name</a>
				<h4 class="price">$10.00</h4>
				<p class="description">desc</p>
				<p class="review-count">1 reviews</p>
			</div>`,
		},
		{
			name: "missing price block",
			html: `<div class="product-wrapper">
				<a class="title" title="Thing" href="/p/1">Thing</a>
				<p class="description">desc</p>
				<p class="review-count">1 reviews</p>
			</div>`,
		},
		{
			name: "unparsable price",
			html: `<div class="product-wrapper">
				<a class="title" title="Thing" href="/p/1">Thing</a>
				<h4 class="price">$call us</h4>
				<p class="description">desc</p>
				<p class="review-count">1 reviews</p>
			</div>`,
		},
		{
			name: "missing description",
			html: `<div class="product-wrapper">
				<a class="title" title="Thing" href="/p/1">Thing</a>
				<h4 class="price">$10.00</h4>
				<p class="review-count">1 reviews</p>
			</div>`,
		},
		{
			name: "missing review caption",
			html: `<div class="product-wrapper">
				<a class="title" title="Thing" href="/p/1">Thing</a>
				<h4 class="price">$10.00</h4>
				<p class="description">desc</p>
			</div>`,
		},
		{
			name: "unparsable review count",
			html: `<div class="product-wrapper">
				<a class="title" title="Thing" href="/p/1">Thing</a>
				<h4 class="price">$10.00</h4>
				<p class="description">desc</p>
				<p class="review-count">many reviews</p>
			</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := ParseProduct(cardSelection(t, tt.html))
			if err == nil {
				t.Fatalf("ParseProduct() = %+v, want error", product)
			}
			if product != nil {
				t.Fatalf("failed extraction must not emit a partial record, got %+v", product)
			}
		})
	}
}

func TestParseProductZeroStars(t *testing.T) {
	html := `<div class="product-wrapper">
		<a class="title" title="Thing" href="/p/1">Thing</a>
		<h4 class="price">$10.00</h4>
		<p class="description">desc</p>
		<p class="review-count">0 reviews</p>
	</div>`

	product, err := ParseProduct(cardSelection(t, html))
	if err != nil {
		t.Fatalf("ParseProduct() error = %v", err)
	}
	if product.Rating != 0 {
		t.Fatalf("rating = %d, want 0 for a card with no star icons", product.Rating)
	}
	if product.NumOfReviews != 0 {
		t.Fatalf("num_of_reviews = %d, want 0", product.NumOfReviews)
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "non-breaking spaces",
			input:    "Wi-Fi, 64GB, Silver",
			expected: "Wi-Fi, 64GB, Silver",
		},
		{
			name:     "plain text untouched",
			input:    "Android 5.0",
			expected: "Android 5.0",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDescription(tt.input); got != tt.expected {
				t.Errorf("NormalizeDescription(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "with currency marker", input: "$646.58", expected: 646.58},
		{name: "with whitespace", input: "  $99.99  ", expected: 99.99},
		{name: "no marker", input: "120.99", expected: 120.99},
		{name: "not a number", input: "$free", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseReviewCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "with suffix", input: "41 reviews", expected: 41},
		{name: "zero", input: "0 reviews", expected: 0},
		{name: "bare number", input: "7", expected: 7},
		{name: "not a number", input: "many reviews", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReviewCount(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReviewCount(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseReviewCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product *models.Product
		wantErr bool
	}{
		{
			name: "valid product",
			product: &models.Product{
				Title:        "Apple iPad Air",
				Description:  "Wi-Fi, 64GB, Silver",
				Price:        646.58,
				Rating:       3,
				NumOfReviews: 41,
			},
			wantErr: false,
		},
		{name: "nil product", product: nil, wantErr: true},
		{
			name:    "missing title",
			product: &models.Product{Description: "desc", Price: 1},
			wantErr: true,
		},
		{
			name:    "negative review count",
			product: &models.Product{Title: "Thing", NumOfReviews: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProduct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
