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
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultCharset is assumed when neither the response headers nor content
// detection yield anything usable. The HTML charset registry maps the
// latin-1 family here.
const DefaultCharset = "windows-1252"

// ErrUnknownCharset reports a charset label that names no known encoding.
var ErrUnknownCharset = errors.New("unknown charset")

// Recorder holds the raw fetched body and its decoding state, and hands out
// decoded views of it. The full decoded sequence can be large; callers that
// only need the head use ContentReplayPrefixString rather than forcing a
// full decode.
type Recorder struct {
	raw     []byte
	charset string
}

// NewRecorder wraps fetched content. charset is an HTML charset label from
// the response headers; when empty, statistical detection runs over the raw
// bytes, falling back to DefaultCharset.
func NewRecorder(raw []byte, charset string) *Recorder {
	name := canonicalCharset(charset)
	if name == "" {
		name = detectCharset(raw)
	}
	if name == "" {
		name = DefaultCharset
	}
	return &Recorder{raw: raw, charset: name}
}

// canonicalCharset maps a charset label to its canonical registry name, or
// "" when the label is unknown.
func canonicalCharset(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return ""
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return ""
	}
	return name
}

func detectCharset(raw []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return ""
	}
	return canonicalCharset(strings.ToLower(result.Charset))
}

// Charset returns the canonical name of the active decoding charset.
func (r *Recorder) Charset() string {
	return r.charset
}

// SetCharset switches the decoding charset for subsequent reads.
func (r *Recorder) SetCharset(label string) error {
	name := canonicalCharset(label)
	if name == "" {
		return ErrUnknownCharset
	}
	r.charset = name
	return nil
}

// Size returns the raw content length in bytes.
func (r *Recorder) Size() int {
	return len(r.raw)
}

// ContentDigest returns a 64-bit digest of the raw content, used downstream
// to identify the fetched record.
func (r *Recorder) ContentDigest() uint64 {
	return xxhash.Sum64(r.raw)
}

// ContentReplayPrefixString decodes and returns at most n characters from
// the head of the content using the active charset.
func (r *Recorder) ContentReplayPrefixString(n int) string {
	return r.prefixWithCharset(n, r.charset)
}

// ContentReplayPrefixStringCharset is ContentReplayPrefixString with an
// explicit charset, without changing the recorder's state. An unknown label
// yields the empty string.
func (r *Recorder) ContentReplayPrefixStringCharset(n int, label string) string {
	name := canonicalCharset(label)
	if name == "" {
		return ""
	}
	return r.prefixWithCharset(n, name)
}

func (r *Recorder) prefixWithCharset(n int, charset string) string {
	// Decode a bounded window: n characters need at most 4n input bytes in
	// any supported encoding.
	window := r.raw
	if len(window) > 4*n {
		window = window[:4*n]
	}
	decoded, _, err := decode(window, charset)
	if err != nil {
		return ""
	}
	seen := 0
	for i := range decoded {
		if seen == n {
			return decoded[:i]
		}
		seen++
	}
	return decoded
}

// ContentReplayString decodes the full content using the active charset.
// It returns the decoded text, the number of decode exceptions encountered
// (input sequences replaced with U+FFFD), and any read error.
func (r *Recorder) ContentReplayString() (string, int, error) {
	return decode(r.raw, r.charset)
}

func decode(raw []byte, charset string) (string, int, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", 0, ErrUnknownCharset
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", 0, err
	}
	badIn := bytes.Count(raw, replacementBytes)
	badOut := bytes.Count(decoded, replacementBytes)
	exceptions := badOut - badIn
	if exceptions < 0 {
		exceptions = 0
	}
	return string(decoded), exceptions, nil
}

var replacementBytes = []byte(string(utf8.RuneError))
