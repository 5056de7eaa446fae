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

package session

// Entry binds one command name to its handler. Names are case-sensitive
// ASCII and must be unique within a table.
type Entry struct {
	Name string
	Fct  HandlerFunc
}

// Table is the closed command set of a session. Lookup is a linear scan;
// the table is small enough that anything fancier would cost more than it
// saves on the targets this agent runs on.
type Table []Entry

// Lookup returns the handler registered for the given name, or nil. The
// first match wins.
func (t Table) Lookup(name string) HandlerFunc {
	for _, e := range t {
		if e.Name == name {
			return e.Fct
		}
	}

	return nil
}

// Names returns the registered command names in table order.
func (t Table) Names() []string {
	r := make([]string, 0, len(t))

	for _, e := range t {
		r = append(r, e.Name)
	}

	return r
}
