package sqlite

import (
	"database/sql"

	"github.com/merchantry/storefront/internal/storefront/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Users() store.Users       { return &usersRepo{db: t.tx} }
func (t *txStore) Products() store.Products { return &productsRepo{db: t.tx} }
