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
	"regexp"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"
)

// attrBucket classifies an attribute name by how its value is interpreted.
// A name lands in the first bucket it matches; the ordering is load-bearing
// (e.g. "src" must win over the catch-all).
type attrBucket int

const (
	// attrHref: href, cite — single URI relative to base, occasionally a
	// javascript: pseudo-URI.
	attrHref attrBucket = iota + 1
	// attrAction: form action URI.
	attrAction
	// attrScriptHandler: on* inline event handlers.
	attrScriptHandler
	// attrSrcLike: src, srcset, lowsrc, background, longdesc, usemap,
	// profile, datasrc and the common data-* lazy-load variants — embedded
	// resource URI(s).
	attrSrcLike
	// attrCodebase: codebase — resolution base for classid/data/archive/code
	// in the same tag.
	attrCodebase
	// attrClassidData: classid, data — URI relative to codebase.
	attrClassidData
	// attrArchive: archive — whitespace-separated URIs relative to codebase.
	attrArchive
	// attrCode: code — URI relative to codebase; applets imply ".class".
	attrCode
	// attrValue: value — sometimes carries a URI; needs tag context.
	attrValue
	// attrStyle: style — inline CSS.
	attrStyle
	// attrMethod: method — form GET/POST.
	attrMethod
	// attrOther: everything else; the name is kept for specialized
	// matching (name, rel, flashvars, further data-* variants).
	attrOther
)

// attrMatch is one attribute occurrence inside an open-tag body. The value
// is dequoted, capped, and entity-unescaped.
type attrMatch struct {
	bucket attrBucket
	name   string
	value  string
}

// attrScanner matches attributes inside an open-tag body. Values may be
// double-quoted, single-quoted, or bare (up to whitespace); an unterminated
// quote runs to end of input. An over-long name does not match in full: its
// trailing maxNameLen characters match as a name of their own. Over-long
// values are truncated, not rejected.
type attrScanner struct {
	re          *regexp.Regexp
	maxValueLen int
}

// Submatch layout mirrors the bucket constants:
//
//	 1: attribute name
//	 2..13: bucket discriminators (href/cite, action, on*, src-like,
//	        codebase, classid/data, archive, code, value, style, method,
//	        any other name)
//	14: double-quoted value  15: single-quoted value  16: bare value
func newAttrScanner(maxNameLen, maxValueLen int) *attrScanner {
	pattern := fmt.Sprintf(`(?is)\s?((href|(?:cite))|(action)|(on\w*)`+
		`|((?:src)|(?:srcset)|(?:lowsrc)|(?:background)`+
		`|(?:longdesc)|(?:usemap)|(?:profile)|(?:datasrc)`+
		`|(?:data-src)|(?:data-srcset)|(?:data-original)|(?:data-original-set))`+
		`|(codebase)|((?:classid)|(?:data))|(archive)|(code)`+
		`|(value)|(style)|(method)`+
		`|([-\w]{1,%d}))`+
		`\s*=\s*`+
		`(?:(?:"(.*?)(?:"|$))`+
		`|(?:'(.*?)(?:'|$))`+
		`|(\S+))`, maxNameLen)
	return &attrScanner{re: regexp.MustCompile(pattern), maxValueLen: maxValueLen}
}

// scan calls fn for each attribute in the tag body, in byte order.
func (s *attrScanner) scan(tagBody string, fn func(m attrMatch)) {
	for _, loc := range s.re.FindAllStringSubmatchIndex(tagBody, -1) {
		group := func(n int) (int, int) { return loc[2*n], loc[2*n+1] }

		bucket := attrOther
		for b := attrHref; b < attrOther; b++ {
			if st, _ := group(int(b) + 1); st >= 0 {
				bucket = b
				break
			}
		}

		nameStart, nameEnd := group(1)
		raw := ""
		for _, vg := range []int{14, 15, 16} {
			if st, en := group(vg); st >= 0 {
				raw = tagBody[st:en]
				break
			}
		}
		fn(attrMatch{
			bucket: bucket,
			name:   tagBody[nameStart:nameEnd],
			value:  xhtml.UnescapeString(truncate(raw, s.maxValueLen)),
		})
	}
}

// truncate caps s at max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
