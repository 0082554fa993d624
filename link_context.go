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

import "strings"

// LinkContext is a short XPath-like tag identifying where in a document a
// link was found, e.g. "a/@href" or "img/@srcset". A few distinguished
// tokens exist for places that are not element attributes.
type LinkContext string

const (
	// LinkContextMeta marks links pulled out of META tag content.
	LinkContextMeta LinkContext = "meta"
	// LinkContextInferredMisc marks links synthesized from other links.
	LinkContextInferredMisc LinkContext = "inferred-misc"
	// LinkContextScript marks URI-like strings found in script code.
	LinkContextScript LinkContext = "script"
	// LinkContextDataRemoteHref marks hrefs on a[data-remote='true']
	// elements, fetched by frameworks as page fragments.
	LinkContextDataRemoteHref LinkContext = "a[data-remote='true']/@href"
)

// elementContext builds the usual "element/@attribute" context, lowercased.
func elementContext(element, attribute string) LinkContext {
	if attribute == "" {
		return ""
	}
	return LinkContext(strings.ToLower(element + "/@" + attribute))
}

// relContext builds the context for LINK elements with a recognized rel
// keyword, e.g. "link[rel='stylesheet']/@href".
func relContext(linkType string) LinkContext {
	return LinkContext("link[rel='" + linkType + "']/@href")
}

// attributeName returns the attribute part of an "element/@attribute"
// context, or the empty string for distinguished tokens.
func (lc LinkContext) attributeName() string {
	if i := strings.Index(string(lc), "/@"); i >= 0 {
		return string(lc[i+2:])
	}
	return ""
}

// elementName returns the element part of an "element/@attribute" context.
func (lc LinkContext) elementName() string {
	if i := strings.Index(string(lc), "/@"); i >= 0 {
		return string(lc[:i])
	}
	return ""
}
