package shelfstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for common conditions
var (
	// ErrNotFound is absence of a document, key, hash field or JSON path.
	// Repositories absorb it into a nil result; it only crosses API
	// boundaries from the lower-level primitives.
	ErrNotFound = errors.New("document not found")

	// ErrStructural is a malformed command or a reference to an index/key
	// that does not exist in the expected shape. Recoverable only during
	// provisioning checks; fatal everywhere else.
	ErrStructural = errors.New("structural backend error")

	// ErrPoolExhausted means no connection could be borrowed within the
	// pool's borrow timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrTimeout means the operation exceeded its deadline. Whether the
	// backend applied the command is unknown.
	ErrTimeout = errors.New("operation timed out")

	// ErrInterrupted is caller-side cancellation while awaiting a reply.
	ErrInterrupted = errors.New("operation interrupted")

	// ErrInvalidConfig indicates a bad configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorWithContext adds key-value context to errors for logging
type ErrorWithContext struct {
	Err     error
	Context map[string]interface{}
}

func (e *ErrorWithContext) Error() string {
	if len(e.Context) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (context: %+v)", e.Err, e.Context)
}

func (e *ErrorWithContext) Unwrap() error {
	return e.Err
}

// WithContext adds context to an error
func WithContext(err error, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ErrorWithContext{
		Err:     err,
		Context: context,
	}
}

// ClassifyRedisErr maps a go-redis failure onto the shelfstore taxonomy.
// The original error stays wrapped so callers can still inspect it.
func ClassifyRedisErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrNotFound
	case errors.Is(err, redis.ErrPoolTimeout):
		return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrInterrupted, err)
	default:
		return fmt.Errorf("%w: %v", ErrStructural, err)
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFatalDuringBootstrap reports whether an error must abort startup.
// Everything except absence is fatal during bootstrap.
func IsFatalDuringBootstrap(err error) bool {
	return err != nil && !IsNotFound(err)
}

// IsUnknownIndex detects RediSearch's "index does not exist" signal.
// The server replies "Unknown index name" (older builds: "no such index");
// classification is by message text because the server sends no error code.
func IsUnknownIndex(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unknown index name") ||
		strings.Contains(msg, "no such index")
}

// IsIndexExists detects the duplicate-creation signal returned when two
// provisioners race on FT.CREATE. Treated as success by the caller.
func IsIndexExists(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "index already exists")
}

// isMissingKeyOrPath detects RedisJSON's replies for array operations against
// a key or JSON path that does not exist.
func isMissingKeyOrPath(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "doesn't exist") ||
		strings.Contains(msg, "could not perform this operation")
}
