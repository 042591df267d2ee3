package seqmatch

import "errors"

// ErrIllegalArgumentType is the Go realization of the original ClickHouse
// aggregate function's ILLEGAL_TYPE_OF_ARGUMENT error. Go's type system
// rules out most of that class at compile time via the Matcher[T] type
// parameter, but it still applies at the config package's boundary: a
// named-pattern config file is untyped YAML, so an out-of-range or
// colliding event bit position there is exactly this class of error.
// See config.Load.
var ErrIllegalArgumentType = errors.New("seqmatch: illegal argument type")
