package matchengine

import "errors"

// Validation errors returned by Submit. A rejected order touches no state;
// resubmitting a corrected order is the caller's job.
var (
	ErrEmptyOrderID     = errors.New("order id is empty")
	ErrInvalidSide      = errors.New("order side must be buy or sell")
	ErrInvalidPrice     = errors.New("order price must be positive")
	ErrInvalidQty       = errors.New("order qty must be positive")
	ErrDuplicateOrderID = errors.New("order id already resting")
)
