package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

var errorKinds = []error{
	ErrInvalidAmount, ErrNotFound, ErrOverpayment, ErrAlreadyOpen, ErrTillClosed,
	ErrDuplicateStock, ErrInsufficientStock, ErrInvalidQuantity, ErrInvalidCredentials,
	ErrValidation, ErrStorage,
}

// classify passes known error kinds through and turns anything else
// (begin/commit failures, driver errors) into ErrStorage.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return storageErr(op, err)
}
