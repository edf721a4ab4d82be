package authz

import "errors"

// ErrForbidden is returned when an identity's role is not in the allow-list of
// the requested operation. It is distinct from authentication failures: the
// caller is known, just not permitted.
var ErrForbidden = errors.New("forbidden")
