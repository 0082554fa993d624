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

// How many characters of the document head the charset sniff examines.
const charsetSniffLength = 1000

var (
	// <meta http-equiv="content-type" content="text/html; charset=iso-8859-1">
	metaContentTypeRE = regexp.MustCompile(`(?is)<meta\s+[^>]*http-equiv\s*=\s*['"]content-type['"][^>]*>`)
	charsetValueRE    = regexp.MustCompile(`charset=([^'";\s>]+)`)
	// <meta charset="utf-8">
	metaCharsetRE = regexp.MustCompile(`(?si)<meta\s+[^>]*charset=['"]([^'";\s>]+)['"]`)
	// <?xml version="1.0" encoding="utf-8"?>
	xmlEncodingRE = regexp.MustCompile(`(?is)<\?xml\s+[^>]*encoding=['"]([^'"]+)['"]`)
)

// contentDeclaredCharset sniffs a charset declaration from the head of the
// document text. It checks, in order: a content-type META, a charset META,
// an XML declaration. The return value is the canonical charset name, or ""
// when nothing usable was declared. A declaration naming an unknown charset
// is annotated on the record and treated as absent.
func contentDeclaredCharset(curi *CrawlURI, contentPrefix string) string {
	var label string
	if m := metaContentTypeRE.FindString(contentPrefix); m != "" {
		if g := charsetValueRE.FindStringSubmatch(m); g != nil {
			label = g[1]
		}
	}
	if label == "" {
		if g := metaCharsetRE.FindStringSubmatch(contentPrefix); g != nil {
			label = g[1]
		} else if g := xmlEncodingRE.FindStringSubmatch(contentPrefix); g != nil {
			label = g[1]
		} else {
			return ""
		}
	}
	name := canonicalCharset(label)
	if name == "" {
		log.Infof("unknown content-encoding %q declared; using default", label)
		curi.AddAnnotation("unsatisfiableCharsetInHTML:" + label)
		return ""
	}
	return name
}

// applyContentDeclaredCharset runs the reflexive charset check: when the
// document declares a charset different from the one the recorder is using,
// the head is re-decoded with the declared charset and re-sniffed. Only a
// self-consistent declaration is adopted.
func applyContentDeclaredCharset(curi *CrawlURI) {
	rec := curi.Recorder()
	prefix := rec.ContentReplayPrefixString(charsetSniffLength)
	declared := contentDeclaredCharset(curi, prefix)
	if declared == "" || declared == rec.Charset() {
		return
	}
	newPrefix := rec.ContentReplayPrefixStringCharset(charsetSniffLength, declared)
	if contentDeclaredCharset(curi, newPrefix) == declared {
		curi.AddAnnotation("usingCharsetInHTML:" + declared)
		rec.SetCharset(declared)
	} else {
		// declared charset not evident once put into effect; keep original
		curi.AddAnnotation("inconsistentCharsetInHTML:" + declared)
	}
}
