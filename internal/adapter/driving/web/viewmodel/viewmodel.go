// Package viewmodel defines presentation-ready structs for the HTML templates.
// View models decouple template rendering from domain model types.
package viewmodel

import "html/template"

// Page is the root value every template is executed with.
type Page struct {
	Title         string
	Authenticated bool
	CSRFToken     string
	Flashes       []FlashViewModel
	Data          any
}

// FlashViewModel is a one-shot notification shown at the top of the next page.
type FlashViewModel struct {
	Level   string // "error", "success" or "info"; used as a CSS modifier.
	Message string
}

// LoginViewModel holds the login form state.
type LoginViewModel struct {
	Username string
}

// CostumeRowViewModel holds presentation-ready data for one row of the costume list.
type CostumeRowViewModel struct {
	ID         string
	Name       string
	Category   string
	Size       string
	Color      string
	Era        string
	Quantity   int
	UpdatedAt  string
	DetailPath string
}

// CostumeListViewModel holds the costume list page state.
type CostumeListViewModel struct {
	Costumes []CostumeRowViewModel
	Query    string
	Total    int // Catalog size before filtering.
}

// CostumeDetailViewModel holds presentation-ready data for the detail page.
type CostumeDetailViewModel struct {
	CostumeRowViewModel

	ImageURL        string
	DescriptionHTML template.HTML // Sanitized markdown.
	CreatedAt       string
	EditPath        string
	DeletePath      string
	DownloadPath    string
}

// CostumeFormViewModel holds the create/edit form state. Values are kept as
// submitted strings so invalid input can be redisplayed.
type CostumeFormViewModel struct {
	ID          string // Empty on create.
	Action      string // POST target.
	SubmitLabel string
	CancelPath  string
	Values      CostumeFormValues
	Errors      map[string]string // Field name to message.
}

// CostumeFormValues are the raw form fields.
type CostumeFormValues struct {
	Name        string
	Category    string
	Size        string
	Color       string
	Era         string
	Quantity    string
	Description string
	ImageURL    string
}
