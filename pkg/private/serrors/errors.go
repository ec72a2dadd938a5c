// Copyright 2024 The mkrpki Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serrors provides enhanced errors. Errors created with serrors carry
// additional context in the form of key value pairs, which is included in the
// message and in structured log output. The returned errors support the
// standard Is and As functionality: for an error e created by Wrap or Join
// with cause c, errors.Is(e, c) is true.
package serrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ctxPair is one item of context information.
type ctxPair struct {
	Key   string
	Value interface{}
}

type baseError struct {
	msg   string
	base  error
	cause error
	ctx   []ctxPair
}

func (e baseError) Error() string {
	var sb strings.Builder
	if e.base != nil {
		sb.WriteString(e.base.Error())
	} else {
		sb.WriteString(e.msg)
	}
	if len(e.ctx) != 0 {
		sb.WriteString(" {")
		for i, p := range e.ctx {
			if i != 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s=%v", p.Key, p.Value)
		}
		sb.WriteString("}")
	}
	if e.cause != nil {
		fmt.Fprintf(&sb, ": %s", e.cause)
	}
	return sb.String()
}

func (e baseError) Unwrap() []error {
	var errs []error
	if e.base != nil {
		errs = append(errs, e.base)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// MarshalLogObject implements zapcore.ObjectMarshaler for a nicer log
// representation.
func (e baseError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if e.base != nil {
		enc.AddString("msg", e.base.Error())
	} else {
		enc.AddString("msg", e.msg)
	}
	if e.cause != nil {
		if m, ok := e.cause.(zapcore.ObjectMarshaler); ok {
			if err := enc.AddObject("cause", m); err != nil {
				return err
			}
		} else {
			enc.AddString("cause", e.cause.Error())
		}
	}
	for _, pair := range e.ctx {
		zap.Any(pair.Key, pair.Value).AddTo(enc)
	}
	return nil
}

func mkCtx(errCtx []interface{}) []ctxPair {
	pairs := make([]ctxPair, len(errCtx)/2)
	for i := range pairs {
		pairs[i] = ctxPair{
			Key:   fmt.Sprint(errCtx[2*i]),
			Value: errCtx[2*i+1],
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		return pairs[a].Key < pairs[b].Key
	})
	return pairs
}

// New creates a new error with the given message and context.
func New(msg string, errCtx ...interface{}) error {
	if len(errCtx) == 0 {
		return errors.New(msg)
	}
	return baseError{
		msg: msg,
		ctx: mkCtx(errCtx),
	}
}

// Wrap returns an error with the given message that wraps the cause and
// carries the additional context. The returned error supports Is; Is(cause)
// returns true.
func Wrap(msg string, cause error, errCtx ...interface{}) error {
	return baseError{
		msg:   msg,
		cause: cause,
		ctx:   mkCtx(errCtx),
	}
}

// Join returns an error that associates the given base error with the given
// cause, unless nil, and the given context. The returned error supports Is:
// Is(err) returns true, and if cause is not nil, Is(cause) returns true.
func Join(err, cause error, errCtx ...interface{}) error {
	if err == nil && cause == nil {
		return nil
	}
	return baseError{
		base:  err,
		cause: cause,
		ctx:   mkCtx(errCtx),
	}
}

// List is a slice of errors.
type List []error

// Error implements the error interface.
func (e List) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return fmt.Sprintf("[ %s ]", strings.Join(s, "; "))
}

// ToError returns the list as an error interface implementation, or nil if
// the list is empty.
func (e List) ToError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// MarshalLogArray implements zapcore.ArrayMarshaler for a nicer logging
// format of error lists.
func (e List) MarshalLogArray(ae zapcore.ArrayEncoder) error {
	for _, err := range e {
		if m, ok := err.(zapcore.ObjectMarshaler); ok {
			if err := ae.AppendObject(m); err != nil {
				return err
			}
		} else {
			ae.AppendString(err.Error())
		}
	}
	return nil
}
