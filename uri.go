// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package krait

import (
	"fmt"
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

// urlParser is the shared lenient URL parser. WHATWG parsing rules tolerate
// the tab/newline garbage and odd escaping found in real-world markup, and
// handle IDN hosts.
var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// UURI is a usable URI: parsed, normalized and always absolute. It is the
// only URI type link records carry.
type UURI struct {
	u   *whatwgUrl.Url
	raw string
}

// ParseUURI parses an absolute URI string.
func ParseUURI(s string) (*UURI, error) {
	u, err := urlParser.Parse(s)
	if err != nil {
		return nil, &BadURIError{URI: s, Err: err}
	}
	return &UURI{u: u, raw: u.Href(false)}, nil
}

// Resolve parses ref relative to this URI and returns the absolute result.
func (u *UURI) Resolve(ref string) (*UURI, error) {
	res, err := urlParser.ParseRef(u.raw, ref)
	if err != nil {
		return nil, &BadURIError{URI: ref, Err: err}
	}
	return &UURI{u: res, raw: res.Href(false)}, nil
}

// String returns the serialized absolute URI.
func (u *UURI) String() string {
	return u.raw
}

// Scheme returns the URI scheme without the trailing colon.
func (u *UURI) Scheme() string {
	return strings.TrimSuffix(u.u.Protocol(), ":")
}

// Authority returns host and optional port. Userinfo is never included;
// the parser strips credentials into separate components.
func (u *UURI) Authority() string {
	return u.u.Host()
}

// Hostname returns the host without the port.
func (u *UURI) Hostname() string {
	return u.u.Hostname()
}

// Port returns the explicit port, or the empty string.
func (u *UURI) Port() string {
	return u.u.Port()
}

// Path returns the URI path component.
func (u *UURI) Path() string {
	return u.u.Pathname()
}

// BadURIError reports a reference that could not be parsed or resolved.
// It is recorded on the document's non-fatal failure list; a single bad
// reference never fails the document.
type BadURIError struct {
	URI string
	Err error
}

func (e *BadURIError) Error() string {
	return fmt.Sprintf("bad uri %q: %v", e.URI, e.Err)
}

func (e *BadURIError) Unwrap() error {
	return e.Err
}
