package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ProductID is the product identifier. The backend sends it either as a
// number or as a string, so both are accepted.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid product id %s: %w", b, err)
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid product id %s: %w", b, err)
	}
	*id = ProductID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// ImageList holds image references. A single string is decoded as a
// one-element list.
type ImageList []string

func (l *ImageList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid image reference: %w", err)
		}
		if s == "" {
			*l = ImageList{}
		} else {
			*l = ImageList{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("invalid image list: %w", err)
	}
	*l = list
	return nil
}

type Product struct {
	ID          ProductID `json:"id,omitempty"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Gender      string    `json:"gender"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Images      ImageList `json:"images"`
}

// ProductInput is the create/update payload. When Uploads is non-empty the
// request is sent as multipart form data.
type ProductInput struct {
	Name        string
	Brand       string
	Gender      string
	Price       float64
	Quantity    int
	Description string
	Images      []string
	Uploads     []Upload
}

// AssignProductsRequest is the body of the bulk category assignment call.
type AssignProductsRequest struct {
	ProductIDs []int64 `json:"productIds"`
}
