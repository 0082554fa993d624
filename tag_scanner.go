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
	"context"
	"fmt"
	"regexp"
	"strings"
)

// tagKind discriminates what a scan match contains.
type tagKind int

const (
	tagScriptBlock tagKind = iota
	tagStyleBlock
	tagMeta
	tagGeneric
	tagComment
)

// tagMatch is one relevant-tag hit. Offsets are into the scanned document.
type tagMatch struct {
	kind tagKind
	// start is the offset of the opening '<'.
	start int
	// element is the element name for generic tags ("a", "img", ...).
	element string
	// body is the open-tag innards for generic and meta tags (element name
	// included, no angle brackets); for script/style blocks it is the whole
	// region from the element name through the closing "</script" or
	// "</style".
	body string
	// openTagEnd is, for script/style blocks, the length of the open-tag
	// portion of body (exclusive of '>').
	openTagEnd int
}

// tagScanner finds, in document order: whole script blocks, whole style
// blocks, meta tags, any other open tag carrying at least one attribute,
// and comments. Tags with no attributes (<br>, </a>) are deliberately not
// produced. An unterminated script or style block degrades to a generic
// open-tag match; its inner text is skipped.
type tagScanner struct {
	re *regexp.Regexp
}

// Submatch layout of the relevant-tag pattern:
//
//	1: whole script block (open tag body through "</script")
//	2: script open tag body
//	3: whole style block
//	4: style open tag body
//	5: open-tag innards of a meta or generic tag
//	6: element name
//	7: set when the element is META
//	8: comment text between "!--" and "--"
func newTagScanner(maxElementLength int) *tagScanner {
	pattern := fmt.Sprintf(`(?is)<(?:((script[^>]*)>.*?</script)`+
		`|((style[^>]*)>.*?</style)`+
		`|(((meta)|(?:\w{1,%d}))\s+[^>]*)`+
		`|(!--.*?--))>`, maxElementLength)
	return &tagScanner{re: regexp.MustCompile(pattern)}
}

// scan calls fn for each relevant tag in document order. It stops early
// when fn returns false or the context is cancelled; between matches is the
// only suspension point, so cancellation latency is one tag match.
//
// Comments are consumed silently, except conditional comments ("<!--[if"
// and the "<!-->" downlevel form): scanning re-enters those so that markup
// inside them is still seen, matching how browsers honoring the condition
// would fetch it.
func (s *tagScanner) scan(ctx context.Context, content string, fn func(m tagMatch) bool) {
	pos := 0
	for pos < len(content) {
		if ctx.Err() != nil {
			return
		}
		loc := s.re.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			return
		}
		m, next := s.interpret(content, pos, loc)
		if m != nil && !fn(*m) {
			return
		}
		pos = next
	}
}

func (s *tagScanner) interpret(content string, pos int, loc []int) (*tagMatch, int) {
	group := func(n int) (int, int) {
		return loc[2*n], loc[2*n+1]
	}
	abs := func(i int) int { return pos + i }
	matchStart, matchEnd := abs(loc[0]), abs(loc[1])

	if st, _ := group(8); st >= 0 {
		body := content[abs(st):abs(loc[17])]
		if strings.HasPrefix(body, "!--[if") || strings.HasPrefix(body, "!-->") {
			// conditional comment: re-enter just past "<!--"
			return nil, matchStart + 4
		}
		return &tagMatch{kind: tagComment, start: matchStart, body: body}, matchEnd
	}
	if st, en := group(7); st >= 0 && en >= 0 {
		bst, ben := group(5)
		return &tagMatch{
			kind:    tagMeta,
			start:   matchStart,
			element: content[abs(st):abs(en)],
			body:    content[abs(bst):abs(ben)],
		}, matchEnd
	}
	if st, en := group(5); st >= 0 {
		est, een := group(6)
		return &tagMatch{
			kind:    tagGeneric,
			start:   matchStart,
			element: content[abs(est):abs(een)],
			body:    content[abs(st):abs(en)],
		}, matchEnd
	}
	if st, en := group(1); st >= 0 {
		_, oen := group(2)
		return &tagMatch{
			kind:       tagScriptBlock,
			start:      matchStart,
			element:    content[abs(st) : abs(st)+len("script")],
			body:       content[abs(st):abs(en)],
			openTagEnd: oen - st,
		}, matchEnd
	}
	if st, en := group(3); st >= 0 {
		return &tagMatch{
			kind:       tagStyleBlock,
			start:      matchStart,
			element:    content[abs(st) : abs(st)+len("style")],
			body:       content[abs(st):abs(en)],
			openTagEnd: loc[9] - st,
		}, matchEnd
	}
	return nil, matchEnd
}
