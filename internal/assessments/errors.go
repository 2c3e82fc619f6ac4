package assessments

import "errors"

// ErrNotFound indicates the assessment does not exist.
var ErrNotFound = errors.New("assessment not found")
