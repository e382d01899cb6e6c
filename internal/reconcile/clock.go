package reconcile

import "time"

// now is a seam for tests.
var now = func() time.Time { return time.Now().UTC() }
