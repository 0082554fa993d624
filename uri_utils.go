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
	"regexp"
	"strings"
)

// Heuristics for deciding whether an arbitrary string, found somewhere no
// URI is required to be, is likely enough a URI to schedule. Deliberately
// liberal: a false positive costs one cheap fetch, a false negative loses
// content. Pure functions, no side effects.

var (
	likelySchemeRE = regexp.MustCompile(`(?i)^(?:https?:|//)`)
	likelyCharsRE  = regexp.MustCompile(`^[\w./~%;+=?&@:-]+$`)
	likelyExtRE    = regexp.MustCompile(`(?i)\.(?:s?html?|php[345]?|aspx?|jsp|cgi|pl|action|do|js|css|json|xml|rss|txt|pdf|gif|jpe?g|png|webp|svg|ico|swf|mp[34]|webm)(?:[?#]|$)`)
	numericOnlyRE  = regexp.MustCompile(`^[\d.,\-:]+$`)
)

// The shortest path-like candidate worth scheduling; anything shorter is
// overwhelmingly an identifier, not a reference.
const minLikelyURILength = 6

// IsVeryLikelyURI reports whether the candidate string looks enough like a
// URI to be worth scheduling as a speculative fetch.
func IsVeryLikelyURI(candidate string) bool {
	s := strings.TrimSpace(candidate)
	if len(s) < 3 || strings.ContainsAny(s, " \t\r\n<>\"'") {
		return false
	}
	if numericOnlyRE.MatchString(s) {
		return false
	}
	if likelySchemeRE.MatchString(s) {
		return true
	}
	if !strings.Contains(s, "/") || !likelyCharsRE.MatchString(s) {
		return false
	}
	if likelyExtRE.MatchString(s) {
		return true
	}
	return len(s) >= minLikelyURILength
}

// SpeculativeFixup patches up common abbreviated forms before a candidate
// is tested: protocol-relative references pick up the base scheme, bare
// www hosts pick up http.
func SpeculativeFixup(candidate string, base *UURI) string {
	s := strings.TrimSpace(candidate)
	switch {
	case strings.HasPrefix(s, "//"):
		if base != nil {
			return base.Scheme() + ":" + s
		}
		return "http:" + s
	case strings.HasPrefix(strings.ToLower(s), "www.") && !strings.Contains(s, " "):
		return "http://" + s
	default:
		return s
	}
}
