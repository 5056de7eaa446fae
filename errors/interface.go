/*
 * MIT License
 *
 * Copyright (c) 2024 Necromancer Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package errors provides error handling with numeric error codes, stack
// tracing and parent-child error chains.
//
// Each package of this module reserves a code range in modules.go and
// registers a message function for its codes in an init. Errors carry the
// frame that created them, so a failing session can be traced without a
// debugger on the target device.
//
// Example usage:
//
//	import liberr "github.com/Necromancer-Labs/embbridge/errors"
//
//	const ErrorParamMissing liberr.CodeError = iota + liberr.MinPkgProtocol
//
//	err := ErrorParamMissing.Error(cause)
//	if err.HasCode(ErrorParamMissing) {
//	    log.Println(err.CodeErrorTrace(""))
//	}
package errors

import (
	"errors"
	"fmt"
)

// FuncMap is a callback function type used for iterating over error
// hierarchies. Return false to stop the iteration.
type FuncMap func(e error) bool

// Error is the main interface extending Go's standard error with code,
// trace and parent chain capabilities.
//
// Modification methods (Add, SetParent) are not safe for concurrent use;
// all read methods are.
type Error interface {
	error

	// IsCode checks if the error's own code matches the given code,
	// without looking at parent errors.
	IsCode(code CodeError) bool
	// HasCode checks if the current error or any parent has the given code.
	HasCode(code CodeError) bool
	// GetCode returns the CodeError value of the current error.
	GetCode() CodeError

	// Is implements compatibility with the standard errors.Is function.
	Is(e error) bool
	// IsError checks if the given error matches the current error message.
	IsError(e error) bool
	// HasError checks if the given error is found in the parent chain.
	HasError(err error) bool
	// HasParent checks if the current Error has any parent.
	HasParent() bool

	// Add appends all non-nil given errors to the parent chain.
	Add(parent ...error)
	// SetParent replaces the parent chain with the given error list.
	SetParent(parent ...error)
	// Map runs a function over the error and each parent, stopping when
	// the function returns false.
	Map(fct FuncMap) bool
	// ContainsString reports whether the error or any parent message
	// contains the given substring.
	ContainsString(s string) bool

	// Code returns the code of the current error.
	Code() uint16
	// CodeSlice returns the codes of the current error and all parents.
	CodeSlice() []uint16

	// CodeError returns "[Error #code] message" (or the given fmt pattern
	// with code and message inputs) for the current error only.
	CodeError(pattern string) string
	// CodeErrorTrace is CodeError with the creation trace appended.
	CodeErrorTrace(pattern string) string

	// StringError returns the bare error message of the current error.
	StringError() string
	// StringErrorSlice returns the message of the current error and all
	// parents as a slice.
	StringErrorSlice() []string

	// GetError returns a plain stdlib error built from the current message.
	GetError() error
	// Unwrap exposes the parent chain to the errors.Is/As machinery.
	Unwrap() []error

	// GetTrace returns "file#line" of the frame that created the error.
	GetTrace() string
}

// Is returns true if the given error implements the Error interface.
func Is(e error) bool {
	var er Error
	return errors.As(e, &er)
}

// IsCode returns true if the given error implements Error and carries the
// given code, directly or through a parent.
func IsCode(e error, code CodeError) bool {
	var er Error
	if errors.As(e, &er) {
		return er.HasCode(code)
	}
	return false
}

// Make wraps any error into the Error interface. A nil input returns nil,
// an existing Error is returned unchanged.
func Make(e error) Error {
	if e == nil {
		return nil
	}

	var er *ers
	if errors.As(e, &er) {
		return er
	}

	var err Error
	if errors.As(e, &err) {
		return err
	}

	return &ers{
		c: 0,
		e: e.Error(),
		p: nil,
	}
}

// New creates a new Error with the given code, message and optional parents.
func New(code uint16, message string, parent ...error) Error {
	var p = make([]Error, 0)

	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	return &ers{
		c: code,
		e: message,
		p: p,
		t: getFrame(),
	}
}

// Newf creates a new Error with the given code and a message generated by
// fmt.Sprintf with the given pattern and arguments.
func Newf(code uint16, pattern string, args ...any) Error {
	return &ers{
		c: code,
		e: fmt.Sprintf(pattern, args...),
		p: make([]Error, 0),
		t: getFrame(),
	}
}

// IfError creates a new Error only if the filtered parent list contains at
// least one valid error. Otherwise nil is returned.
func IfError(code uint16, message string, parent ...error) Error {
	p := make([]Error, 0)

	for _, e := range parent {
		if er := Make(e); er != nil {
			p = append(p, er)
		}
	}

	if len(p) < 1 {
		return nil
	}

	return &ers{
		c: code,
		e: message,
		p: p,
		t: getFrame(),
	}
}
