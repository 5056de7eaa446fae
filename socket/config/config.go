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

// Package config holds the socket server and client configuration models.
package config

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// Server configures a listening socket.
type Server struct {
	// Address is the listen address in "host:port" or ":port" form.
	Address string `json:"address" yaml:"address" toml:"address" mapstructure:"address" validate:"required"`
}

// Client configures an outbound connection.
type Client struct {
	// Address is the remote address in "host:port" form.
	Address string `json:"address" yaml:"address" toml:"address" mapstructure:"address" validate:"required,hostname_port"`
}

// Validate checks the configuration against its struct constraints and
// returns a coded error listing every failed field.
func (o Server) Validate() liberr.Error {
	return validate(o)
}

// Validate checks the configuration against its struct constraints and
// returns a coded error listing every failed field.
func (o Client) Validate() liberr.Error {
	return validate(o)
}

func validate(o any) liberr.Error {
	var e = ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(o); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}
