// Package errs holds the failure categories of a sync run.
//
// Concrete errors are marked with one of the sentinels below, so callers can branch with errors.Is
// without caring how deep the wrap chain is.
package errs

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrFieldExtraction: one field of one candidate element could not be read. The field becomes nil.
	ErrFieldExtraction = errors.New("field extraction failed")
	// ErrRecordExtraction: one candidate element could not be parsed. The record is skipped.
	ErrRecordExtraction = errors.New("record extraction failed")
	// ErrZeroYield: a source phase produced no records.
	ErrZeroYield = errors.New("zero yield")
	// ErrPhaseFatal: navigation or another top-level failure aborted a source phase.
	ErrPhaseFatal = errors.New("phase aborted")
	// ErrPersist: a single row could not be upserted.
	ErrPersist = errors.New("persist failed")
	// ErrSession: the browsing session or store could not be established. Fatal to the run.
	ErrSession = errors.New("session unavailable")
)

// categorized tags an error with a category. Is makes the category visible to the standard
// library errors.Is as well as to cockroachdb's, which delegates to Is methods.
type categorized struct {
	error
	category error
}

func (c *categorized) Unwrap() error { return c.error }

func (c *categorized) Is(target error) bool { return target == c.category }

func tag(err error, category error) error {
	return &categorized{error: errors.Mark(err, category), category: category}
}

// Mark wraps err with msg and tags it with the given category.
func Mark(err error, category error, msg string) error {
	if err == nil {
		return nil
	}
	return tag(errors.Wrap(err, msg), category)
}

// Markf is Mark with a format string.
func Markf(err error, category error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return tag(errors.Wrapf(err, format, args...), category)
}

// Newf creates a fresh error tagged with the category.
func Newf(category error, format string, args ...interface{}) error {
	return tag(errors.Newf(format, args...), category)
}
