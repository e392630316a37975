// Package errcollection gives the ability to return multiple errors instead
// of one. Cleanup paths use it to press on after individual step failures and
// still report everything that went wrong.
package errcollection

import (
	"strings"

	"github.com/pkg/errors"
)

const delimiter = "; "

// ErrorCollection gathers errors and returns one error whose message combines
// the messages of all collected errors, delimited by "; ".
type ErrorCollection struct {
	errorList []error
}

// Add inserts a new error to the collection. Nil errors are ignored.
func (e *ErrorCollection) Add(err error) {
	if err == nil {
		return
	}
	e.errorList = append(e.errorList, err)
}

// GetErrIfAny returns an error with the combined message from all collected
// errors. In case of no error it returns nil.
func (e *ErrorCollection) GetErrIfAny() error {
	if len(e.errorList) == 0 {
		return nil
	}

	messages := make([]string, 0, len(e.errorList))
	for _, err := range e.errorList {
		messages = append(messages, err.Error())
	}
	return errors.New(strings.Join(messages, delimiter))
}
