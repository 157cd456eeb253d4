package csvfile

import (
	"strings"
	"testing"
)

func TestReadMapsAliasedColumns(t *testing.T) {
	input := `Company Name,Website,Contact Email,Phone Number,Category,City
Joe's Pizza,joes-pizza.com,JOE@Joes-Pizza.com,(555) 123-4567,restaurant,Portland
Bakery,,info@bakery.example.com,,bakery,Austin
,missing-name.example.com,,,,
Green Thumb,https://greenthumb.example.com,,,landscaping,Denver
`
	leads, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	// Rows without a name or website are skipped.
	if len(leads) != 2 {
		t.Fatalf("got %d leads, want 2: %+v", len(leads), leads)
	}

	first := leads[0]
	if first.BusinessName != "Joe's Pizza" || first.WebsiteURL != "joes-pizza.com" {
		t.Fatalf("unexpected first lead: %+v", first)
	}
	if first.Email != "joe@joes-pizza.com" {
		t.Fatalf("email not normalized: %q", first.Email)
	}
	if first.Phone != "(555)123-4567" {
		t.Fatalf("phone not normalized: %q", first.Phone)
	}
	if first.Industry != "restaurant" || first.Location != "Portland" {
		t.Fatalf("industry/location wrong: %+v", first)
	}
	if first.Source != SourceName {
		t.Fatalf("source = %q, want %q", first.Source, SourceName)
	}
}

func TestReadRejectsMissingRequiredColumns(t *testing.T) {
	if _, err := Read(strings.NewReader("email,phone\na@b.com,123\n")); err == nil {
		t.Fatal("expected an error without name/website columns")
	}
	if _, err := Read(strings.NewReader("name,phone\nJoe,123\n")); err == nil {
		t.Fatal("expected an error without a website column")
	}
}

func TestReadEmptyFile(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestReadHeaderOnly(t *testing.T) {
	leads, err := Read(strings.NewReader("name,website\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("got %d leads from header-only file, want 0", len(leads))
	}
}
