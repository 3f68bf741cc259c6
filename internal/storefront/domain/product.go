package domain

import "time"

// Product is a catalog entry. The auth core treats the catalog as a thin
// collaborator; it exists here to give admin-gated and public routes
// something real to serve.
type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Stock       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
