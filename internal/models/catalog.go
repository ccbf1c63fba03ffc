package models

import "time"

type Product struct {
	ID          int64
	Name        string
	Category    string
	Price       int64
	Description string
	ImageURL    string
	Badge       *string
	Stock       int
	CreatedAt   time.Time
}

type BlogPost struct {
	ID        int64
	Title     string
	Content   string
	Excerpt   string
	ImageURL  string
	Author    string
	Published bool
	CreatedAt time.Time
}
