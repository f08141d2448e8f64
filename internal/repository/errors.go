package repository

import "github.com/infosegura/loteria-server/internal/errors"

// ErrNotFound is returned when a requested room does not exist in the store.
// It abstracts the underlying storage implementation away from the service
// layer.
var ErrNotFound = errors.NotFound("room not found")
