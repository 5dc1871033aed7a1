package model

import "time"

// Costume is a single catalog entry managed through the costume API.
// ID is kept as a string because the backend may use numeric or opaque ids;
// it is only ever interpolated into path templates.
type Costume struct {
	ID          string
	Name        string
	Category    string
	Size        string
	Color       string
	Era         string
	Quantity    int
	Description string // Markdown.
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CostumeInput carries the writable fields of a Costume for create and update calls.
type CostumeInput struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Era         string
	Quantity    int
	Description string
	ImageURL    string
}

// Input returns the writable fields of c, used to prefill edit forms.
func (c Costume) Input() CostumeInput {
	return CostumeInput{
		Name:        c.Name,
		Category:    c.Category,
		Size:        c.Size,
		Color:       c.Color,
		Era:         c.Era,
		Quantity:    c.Quantity,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}
