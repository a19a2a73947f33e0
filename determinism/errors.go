package determinism

import "errors"

// ErrNonCanonicalizable is returned by Hash when a value has no defined
// canonical form (non-finite floats, or anything encoding/json itself
// cannot serialize, e.g. channels or funcs nested in the payload).
var ErrNonCanonicalizable = errors.New("determinism: value has no canonical form")
