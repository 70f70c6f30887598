package services

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/camden-git/persongraph/repository"
)

// inTx runs fn in one write transaction. Any error rolls the transaction
// back and is returned classified (see wrap).
func inTx(ctx context.Context, db *gorm.DB, lookup *repository.Lookup, op string, fn func(tx *gorm.DB, lk *repository.Lookup) error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, lookup.WithTx(tx))
	})
	return wrap(op, err)
}

// inReadTx runs fn in a read-only transaction so aggregates are assembled
// from one snapshot.
func inReadTx(ctx context.Context, db *gorm.DB, lookup *repository.Lookup, op string, fn func(lk *repository.Lookup) error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(lookup.WithTx(tx))
	}, &sql.TxOptions{ReadOnly: true})
	return wrap(op, err)
}
