package contract

import "errors"

// ErrConflict is returned by repositories when a write violates a uniqueness
// constraint such as (notebook_id, order_id).
var ErrConflict = errors.New("unique constraint violated")
