// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fault defines the error taxonomy shared by the codecs.
//
// Callers should branch on Kind (via IsKind or errors.As) rather than on
// error strings, which are meant for humans and may change.
package fault

import (
	"errors"
	"fmt"
)

// Kind is a stable error category.
type Kind string

const (
	// KindMalformed means binary input or a descriptor field value does not
	// parse.
	KindMalformed Kind = "Malformed"
	// KindMissingField means a field required by the declared variant or
	// state is absent.
	KindMissingField Kind = "MissingField"
	// KindConflict means two representations of the same fact disagree.
	KindConflict Kind = "Conflict"
	// KindUsage means mutually exclusive alternatives were supplied.
	KindUsage Kind = "Usage"
	// KindUnsupported means the input asks for something not implemented,
	// such as assembling a script from its disassembly.
	KindUnsupported Kind = "Unsupported"
)

type Error struct {
	Cause   error
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of a structured error, or "" if err is not one.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

func Malformed(field string, cause error) error {
	return &Error{
		Kind:    KindMalformed,
		Field:   field,
		Message: "invalid value",
		Cause:   cause,
	}
}

// MalformedInput reports binary input that does not parse.
func MalformedInput(what string, cause error) error {
	return &Error{
		Kind:    KindMalformed,
		Message: "invalid " + what,
		Cause:   cause,
	}
}

func Malformedf(field string, format string, args ...any) error {
	return &Error{
		Kind:    KindMalformed,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// MissingField reports that field is required in the given context.
func MissingField(field string, context string) error {
	return &Error{
		Kind:    KindMissingField,
		Field:   field,
		Message: "required for " + context,
	}
}

func Conflict(field string, format string, args ...any) error {
	return &Error{
		Kind:    KindConflict,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

func Usage(format string, args ...any) error {
	return &Error{
		Kind:    KindUsage,
		Message: fmt.Sprintf(format, args...),
	}
}

func Unsupported(field string, format string, args ...any) error {
	return &Error{
		Kind:    KindUnsupported,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}
