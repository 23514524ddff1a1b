// Package ml provides the client boundary to the external classifier service.
package ml

import "errors"

// Classifier boundary errors
var (
	ErrConnectionFailed  = errors.New("failed to connect to classifier service")
	ErrInvalidResponse   = errors.New("classifier returned an invalid response")
	ErrSchemaUnavailable = errors.New("classifier schema unavailable")
)
