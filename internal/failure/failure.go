// Package failure categorises errors so the CLI can report them and pick an exit status.
package failure

import (
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryConfig     Category = "configuration"
	CategoryProcess    Category = "process"
	CategoryAuth       Category = "authentication"
	CategoryRemote     Category = "remote"
	CategoryFilesystem Category = "filesystem"
	CategoryUnknown    Category = "unknown"
)

// Error attaches a Category and the failing operation to an underlying error.
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err tagged with category. A nil err stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: category, Op: op, Err: err}
}

func Configf(format string, args ...any) error {
	return &Error{Category: CategoryConfig, Err: fmt.Errorf(format, args...)}
}

// CategoryOf returns the category of the outermost *Error in err's chain.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryUnknown
}

func Is(err error, category Category) bool {
	return err != nil && CategoryOf(err) == category
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch CategoryOf(err) {
	case "":
		return 0
	case CategoryProcess:
		return 2
	case CategoryAuth, CategoryRemote:
		return 3
	case CategoryFilesystem:
		return 4
	default:
		return 1
	}
}

// Details mirrors the reason/category pair the logs carry for a failed run.
func Details(err error) (reason string, category Category) {
	if err == nil {
		return "", ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown failure"
	}
	return msg, CategoryOf(err)
}
