package models

import "time"

// RawListing holds an unprocessed marketplace listing as read from an import
// CSV. Every field is a string until the cleaner parses it.
type RawListing struct {
	Product   string
	Model     string
	RawPrice  string
	Province  string
	City      string
	District  string
	Source    string
	SourceURL string
	PostedAt  string
}

// Listing is the cleaned, validated record stored in PostgreSQL.
type Listing struct {
	ID        int64
	Product   string
	Model     string
	Price     int64
	Province  string
	City      string
	District  string
	Source    string
	SourceURL string
	PostedAt  time.Time
	CreatedAt time.Time
}

// LocationLabel is the "city district" text shown next to a listing.
func (l *Listing) LocationLabel() string {
	switch {
	case l.City != "" && l.District != "":
		return l.City + " " + l.District
	case l.District != "":
		return l.District
	default:
		return l.City
	}
}

// ListingFilter narrows stored listings to one product, model and region.
// Empty fields match everything.
type ListingFilter struct {
	Product  string
	Model    string
	Province string
	City     string
	District string
}
