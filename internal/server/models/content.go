package models

import (
	"encoding/json"
	"time"
)

// Sermon is a recorded sermon. References holds the scripture references as
// submitted by the admin UI; the server stores it without interpreting it.
type Sermon struct {
	ID         string          `json:"_id"`
	Speaker    string          `json:"speaker"`
	References json.RawMessage `json:"references"`
	Date       time.Time       `json:"date"`
	Service    string          `json:"service"`
	URL        string          `json:"url"`
	Series     string          `json:"series"`
}

// SermonIndex lists the distinct books, series and speakers that have
// sermons. Books come from the details of each stored reference.
type SermonIndex struct {
	Books    []string `json:"books"`
	Series   []string `json:"series"`
	Speakers []string `json:"speakers"`
}

type Speaker struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	Surname   string `json:"surname"`
	FullName  string `json:"fullName"`
	Church    string `json:"church"`
}

type Series struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Event is a calendar entry. End is nil for open-ended events.
type Event struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Speaker     string     `json:"speaker"`
	Type        string     `json:"type"`
}

// Message is a contact form submission.
type Message struct {
	ID      string    `json:"_id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Date    string    `json:"date"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}
