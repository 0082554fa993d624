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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styleFixture(t *testing.T) (*ExtractorHTML, *CrawlURI) {
	t.Helper()
	ex := NewExtractorHTML(nil, nil)
	uri, err := ParseUURI("http://h/css/site.css")
	require.NoError(t, err)
	return ex, NewCrawlURI(uri)
}

func TestStyleCodeURLForms(t *testing.T) {
	ex, curi := styleFixture(t)
	count := processStyleCode(ex, curi, `
		.a { background: url(/one.png); }
		.b { background: url("/two.png"); }
		.c { background: url('/three.png'); }
	`, "style")
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{
		"http://h/one.png E style",
		"http://h/two.png E style",
		"http://h/three.png E style",
	}, linkStrings(curi))
}

func TestStyleCodeImport(t *testing.T) {
	ex, curi := styleFixture(t)
	count := processStyleCode(ex, curi, `@import "base.css"; @import url(extra.css);`, "style")
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{
		"http://h/css/extra.css E style",
		"http://h/css/base.css E style",
	}, linkStrings(curi))
}

func TestStyleCodeSkipsCommentsAndDataURIs(t *testing.T) {
	ex, curi := styleFixture(t)
	count := processStyleCode(ex, curi, `
		/* .old { background: url(/gone.png); } */
		.inline { background: url(data:image/png;base64,AAAA); }
		.live { background: url(/kept.png); }
	`, "style")
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"http://h/kept.png E style"}, linkStrings(curi))
}
