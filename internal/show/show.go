package show

import (
	"fmt"
	"time"
)

// Show represents one festival event and its schedule metadata
type Show struct {
	ID                   int       `gorm:"primaryKey;autoIncrement:false" json:"id"` // upstream site ID
	Title                string    `gorm:"size:255;not null" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	PlainTextDescription string    `gorm:"type:text" json:"plain_text_description"`
	ImageURL             string    `gorm:"size:255" json:"image_url"`
	Tag                  string    `gorm:"size:50" json:"tag"`
	Price                float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Fee                  float64   `gorm:"type:decimal(10,2);not null" json:"fee"`
	FirstShowDate        time.Time `gorm:"type:date;not null" json:"first_show_date"`
	LengthInMinutes      int       `gorm:"not null" json:"length_in_minutes"`

	VenueID         int            `gorm:"not null;index" json:"venue_id"`
	Venue           *Venue         `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"venue,omitempty"`
	ContentRatingID int            `gorm:"not null;index" json:"content_rating_id"`
	ContentRating   *ContentRating `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"content_rating,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Venue is a performance location. VenueNumber is the festival's own venue number.
type Venue struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	VenueNumber int       `gorm:"uniqueIndex:uq_venues_venue_number;not null" json:"venue_number"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Address     string    `gorm:"type:text;not null" json:"address"`
	PostalCode  string    `gorm:"size:6;not null" json:"postal_code"`
	Phone       string    `gorm:"size:10;not null" json:"phone"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ContentRating is a content advisory such as "PG", keyed by Code.
type ContentRating struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Code        string `gorm:"size:40;uniqueIndex:uq_content_ratings_code;not null" json:"code"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// ShowTime is one scheduled performance of a show
type ShowTime struct {
	ID                 int       `gorm:"primaryKey" json:"id"`
	ShowID             int       `gorm:"not null;index" json:"show_id"`
	Show               *Show     `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	DateTime           time.Time `gorm:"not null" json:"date_time"`
	PerformanceTime    string    `gorm:"type:time;not null" json:"performance_time"` // HH:MM:SS
	PerformanceDate    string    `gorm:"size:50;not null" json:"performance_date"`
	PresentationFormat string    `gorm:"size:20;not null" json:"presentation_format"`
	Reserved           bool      `gorm:"not null" json:"reserved"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time `gorm:"not null" json:"updated_at"`
}

// User is an end user of the ratings front end. The scraper never writes users.
type User struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100" json:"name,omitempty"`
}

// Rating is a score on the user rating scale (not a content advisory).
type Rating struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:50;not null" json:"name"`
	Code        string `gorm:"size:40;uniqueIndex:uq_ratings_code;not null" json:"code"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// UserRating links a user's rating to a show. Rows are cleared on every run because
// they reference shows.
type UserRating struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:uq_user_ratings" json:"user_id"`
	User      *User     `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	ShowID    int       `gorm:"not null;uniqueIndex:uq_user_ratings" json:"show_id"`
	Show      *Show     `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	RatingID  int       `gorm:"not null" json:"rating_id"`
	Rating    *Rating   `gorm:"constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Placeholder values used when a show page does not carry a venue or rating line.
const (
	UnknownVenueNumber = -1
	UnknownVenueName   = "Unknown"
	UnratedName        = "Unrated"
	UnratedCode        = "UR"
)

// NewShow creates a Show with timestamps populated
func NewShow(id int) *Show {
	now := time.Now().UTC()
	return &Show{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewVenue creates a Venue with timestamps populated
func NewVenue(number int, name, address, postalCode, phone string) *Venue {
	now := time.Now().UTC()
	return &Venue{
		VenueNumber: number,
		Name:        name,
		Address:     address,
		PostalCode:  postalCode,
		Phone:       phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Unrated returns the rating assigned to shows without a rating line.
func Unrated() *ContentRating {
	return &ContentRating{Name: UnratedName, Code: UnratedCode}
}

// String implements fmt.Stringer for log lines.
func (s *Show) String() string {
	return fmt.Sprintf("%d: %s", s.ID, s.Title)
}

// VenueNumber returns the show's venue number, or UnknownVenueNumber without a venue.
func (s *Show) VenueNumber() int {
	if s.Venue == nil {
		return UnknownVenueNumber
	}
	return s.Venue.VenueNumber
}

// RatingCode returns the show's content rating code, or "" without a rating.
func (s *Show) RatingCode() string {
	if s.ContentRating == nil {
		return ""
	}
	return s.ContentRating.Code
}
