package insights

import "errors"

// ErrAssessmentNotFound indicates the referenced assessment does not exist.
var ErrAssessmentNotFound = errors.New("assessment not found")

// ErrNoFindings indicates a recommendation run was requested for an
// assessment with no stored findings and no explicit findings text.
var ErrNoFindings = errors.New("no findings to recommend against")
