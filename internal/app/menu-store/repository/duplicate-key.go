package menu_store_repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Server error codes reported for unique index violations.
var duplicateKeyCodes = []int{11000, 11001, 12582}

// IsDuplicateKeyError reports whether err, or any error it wraps, is a
// MongoDB server error for a unique index violation. Bulk write errors
// match when any of their write errors carries one of the codes.
func IsDuplicateKeyError(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}

	for _, code := range duplicateKeyCodes {
		if serverErr.HasErrorCode(code) {
			return true
		}
	}
	return false
}
