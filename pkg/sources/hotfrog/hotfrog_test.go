package hotfrog

import "testing"

const listingPage = `<html><body>
<div class="row">
  <h3>Joe's Pizza Kitchen</h3>
  <span>123 Main St, Portland, OR</span>
  <a href="tel:+15551234567">(555) 123-4567</a>
  <a href="/company/joes-pizza">Details</a>
  <a href="https://joes-pizza.com">Visit website</a>
</div>
<div class="row">
  <h3>Directory Only Diner</h3>
  <span>456 Oak Ave</span>
  <a href="/company/directory-only">Details</a>
</div>
<div class="row">
  <h3>Social Media Cafe</h3>
  <span>789 Elm St</span>
  <a href="https://www.facebook.com/socialcafe">Visit website</a>
</div>
<div class="row">
  <h3>AB</h3>
  <a href="https://too-short.example.com">site</a>
</div>
<div class="row">
  <h3>Mailing Bakery</h3>
  <span>Claim this business</span>
  <a href="mailto:Hello@Bakery.com">email us</a>
  <a href="https://bakery-site.com">website</a>
</div>
</body></html>`

func TestParseListings(t *testing.T) {
	leads, err := parseListings(listingPage)
	if err != nil {
		t.Fatalf("parseListings: %v", err)
	}

	// Only listings with a direct, non-directory website survive:
	// "Directory Only Diner" has no external link, the social-media link is
	// filtered, and a 2-character name is rejected.
	if len(leads) != 2 {
		t.Fatalf("got %d leads, want 2: %+v", len(leads), leads)
	}

	joe := leads[0]
	if joe.BusinessName != "Joe's Pizza Kitchen" {
		t.Fatalf("name = %q", joe.BusinessName)
	}
	if joe.WebsiteURL != "https://joes-pizza.com" {
		t.Fatalf("website = %q", joe.WebsiteURL)
	}
	if joe.Phone != "(555)123-4567" {
		t.Fatalf("phone = %q", joe.Phone)
	}
	if joe.Location != "123 Main St, Portland, OR" {
		t.Fatalf("location = %q", joe.Location)
	}

	bakery := leads[1]
	if bakery.Email != "hello@bakery.com" {
		t.Fatalf("email = %q, want normalized lowercase", bakery.Email)
	}
	if bakery.Location != "" {
		t.Fatalf("claim-this-business span should not become a location, got %q", bakery.Location)
	}
}

func TestParseListingsEmptyPage(t *testing.T) {
	leads, err := parseListings("<html><body><p>No results</p></body></html>")
	if err != nil {
		t.Fatalf("parseListings: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("got %d leads from empty page, want 0", len(leads))
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		location, category string
		page               int
		want               string
	}{
		{"us", "restaurant", 1, "https://www.hotfrog.com/search/us/restaurant"},
		{"US", "Auto Repair", 1, "https://www.hotfrog.com/search/us/auto-repair"},
		{"uk", "bakery", 3, "https://www.hotfrog.com/search/uk/bakery?page=3"},
		{"ca", "", 1, "https://www.hotfrog.com/search/ca"},
	}
	for _, tt := range tests {
		if got := searchURL(tt.location, tt.category, tt.page); got != tt.want {
			t.Fatalf("searchURL(%q, %q, %d) = %q, want %q", tt.location, tt.category, tt.page, got, tt.want)
		}
	}
}
