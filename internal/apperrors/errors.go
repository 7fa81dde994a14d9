package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a state transition lost to a concurrent update
// (e.g. two settlements racing for the same pending transaction).
var ErrConflict = errors.New("resource state conflict")

// ErrPersistence wraps repository failures that should not leak storage details.
var ErrPersistence = errors.New("persistence error")
