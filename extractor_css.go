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

var (
	cssCommentRE = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	// url("path"), url('path'), url(path)
	cssURLRE = regexp.MustCompile(`url\s*\(\s*['"]?([^'")]+)['"]?\s*\)`)
	// @import "path" / @import 'path' (the url() form is caught above)
	cssImportRE = regexp.MustCompile(`(?i)@import\s+['"]([^'"]+)['"]`)
)

// processStyleCode extracts resource URIs from CSS text: url() references
// (font files, background images) and bare @import targets. Comments are
// stripped first so commented-out rules are not fetched. Each URI is
// emitted as an embedded resource relative to the document base; data:
// URIs are skipped. Returns the number of links emitted.
func processStyleCode(ex *ExtractorHTML, curi *CrawlURI, code string, context LinkContext) int {
	code = cssCommentRE.ReplaceAllString(code, "")

	count := 0
	emit := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return
		}
		if ex.addLink(curi, ref, context, HopEmbed) {
			count++
		}
	}
	for _, groups := range cssURLRE.FindAllStringSubmatch(code, -1) {
		emit(groups[1])
	}
	for _, groups := range cssImportRE.FindAllStringSubmatch(code, -1) {
		emit(groups[1])
	}
	return count
}
