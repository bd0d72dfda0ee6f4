package conn

import "fmt"

// ConnectionError reports a failed connection attempt. The gate converts it
// to a 503; it never crosses the handler boundary.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to database: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// SeedError reports a failed seeding pass. It is logged and swallowed: the
// connection stays ready and the triggering request is unaffected.
type SeedError struct {
	Cause error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("unable to seed default records: %v", e.Cause)
}

func (e *SeedError) Unwrap() error { return e.Cause }
