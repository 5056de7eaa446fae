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

package agent

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/Necromancer-Labs/embbridge/errors"
)

// RunMode selects how the agent reaches its controller.
type RunMode string

const (
	// ModeConnect dials out to a listening controller (reverse).
	ModeConnect RunMode = "connect"
	// ModeListen accepts controllers on a local port (bind).
	ModeListen RunMode = "listen"
)

// Config is the merged agent configuration: CLI flags first, optional
// config file underneath. Environment variables are not read.
type Config struct {
	// Mode is the run mode, connect or listen.
	Mode RunMode `json:"mode" yaml:"mode" toml:"mode" mapstructure:"mode" validate:"required,oneof=connect listen"`

	// Remote is the controller address for connect mode.
	Remote string `json:"remote" yaml:"remote" toml:"remote" mapstructure:"remote" validate:"omitempty,hostname_port"`

	// Port is the listen port for listen mode.
	Port uint16 `json:"port" yaml:"port" toml:"port" mapstructure:"port"`
}

// Validate checks the configuration, including the per-mode required
// fields, and returns a coded error listing every failure.
func (o Config) Validate() liberr.Error {
	var e = ErrorConfigValidator.Error(nil)

	if err := libval.New().Struct(o); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	switch o.Mode {
	case ModeConnect:
		if o.Remote == "" {
			e.Add(fmt.Errorf("connect mode needs a remote 'host:port' address"))
		}
	case ModeListen:
		if o.Port == 0 {
			e.Add(fmt.Errorf("listen mode needs a non zero port"))
		}
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}
