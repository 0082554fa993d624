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

import "regexp"

// jsStringRE matches single- and double-quoted string literals. String
// analysis is best effort: escapes are not interpreted, and a literal
// spanning lines is skipped. False positives are acceptable downstream.
var jsStringRE = regexp.MustCompile(`"([^"\r\n]*?)"|'([^'\r\n]*?)'`)

// ExtractorJS scans javascript source for string literals that look likely
// to be URIs. It is invoked for inline script blocks, on* handler
// attributes and javascript: pseudo-URIs.
type ExtractorJS struct {
	// MaxStringLength caps the literal length considered; longer strings
	// are almost never single URIs. Zero means no cap.
	MaxStringLength int
}

// NewExtractorJS returns a javascript extractor with default settings.
func NewExtractorJS() *ExtractorJS {
	return &ExtractorJS{MaxStringLength: 2048}
}

// ConsiderStrings scans code for URI-like string literals and emits each as
// a speculative outlink relative to the document base. It returns the
// number of links emitted.
func (js *ExtractorJS) ConsiderStrings(ex *ExtractorHTML, curi *CrawlURI, code string) int {
	count := 0
	for _, groups := range jsStringRE.FindAllStringSubmatch(code, -1) {
		literal := groups[1]
		if literal == "" {
			literal = groups[2]
		}
		if literal == "" {
			continue
		}
		if js.MaxStringLength > 0 && len(literal) > js.MaxStringLength {
			continue
		}
		if IsVeryLikelyURI(literal) {
			if ex.addLink(curi, literal, LinkContextScript, HopSpeculative) {
				count++
			}
		}
	}
	return count
}
