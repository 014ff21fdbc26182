package domain

import "strings"

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// CategoryInput is always sent as multipart form data.
type CategoryInput struct {
	Name        string
	Description string
	Image       *Upload
}

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyCategoryName
	}
	return nil
}
