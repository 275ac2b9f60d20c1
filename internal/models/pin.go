package models

// PinImage holds the rendered image and its intrinsic dimensions
type PinImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// PinAuthor identifies the user who created a pin. The field names match the
// shape the web client already consumes.
type PinAuthor struct {
	ID       string `json:"_id"`
	UserName string `json:"userName,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Pin is a single catalog entry: one image plus its metadata. ID is the sole
// identity and PostedBy.ID never changes after creation.
type Pin struct {
	ID          string    `json:"id"`
	Image       PinImage  `json:"image"`
	Destination string    `json:"destination,omitempty"`
	Title       string    `json:"title"`
	About       string    `json:"about,omitempty"`
	Category    string    `json:"category,omitempty"`
	Save        []string  `json:"save,omitempty"`
	PostedBy    PinAuthor `json:"postedBy"`
}

// UpdatePinRequest defines the mutable fields of a pin. Ownership and identity
// fields are taken from the stored record, not from the request.
type UpdatePinRequest struct {
	Image       PinImage `json:"image"`
	Destination string   `json:"destination,omitempty"`
	Title       string   `json:"title" validate:"required"`
	About       string   `json:"about,omitempty"`
	Category    string   `json:"category,omitempty"`
}
