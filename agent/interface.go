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

// Package agent wires the transport, the session engine and the command
// table into the two run modes of the embbridge agent: reverse (dial out
// to a listening controller, one session) and bind (listen and serve one
// session per accepted controller).
package agent

import (
	"context"

	"github.com/sirupsen/logrus"

	libcmd "github.com/Necromancer-Labs/embbridge/commands"
	liberr "github.com/Necromancer-Labs/embbridge/errors"
	libssn "github.com/Necromancer-Labs/embbridge/session"
)

// DefaultPort is the historical embbridge port.
const DefaultPort = 1337

// Agent is one configured agent instance.
type Agent interface {
	// Run blocks until the context is done, the peer disconnects
	// (reverse mode) or the listener shuts down (bind mode).
	Run(ctx context.Context) liberr.Error
}

// New validates the configuration and builds an agent.
func New(cfg Config, log *logrus.Entry) (Agent, liberr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &agt{
		cfg: cfg,
		tbl: libcmd.Table(),
		log: log,
	}, nil
}

type agt struct {
	cfg Config
	tbl libssn.Table
	log *logrus.Entry
}
