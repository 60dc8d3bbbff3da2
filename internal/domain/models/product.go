package models

// Product is a named item traded on the bazar. Products are never hard
// deleted; hiding one simply flips Active off so history keeps resolving.
type Product struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
