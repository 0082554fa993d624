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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T, config *ExtractorConfig, policy string) *ExtractorHTML {
	t.Helper()
	metadata := NewCrawlMetadata()
	if policy != "" {
		require.NoError(t, metadata.SetRobotsPolicyName(policy))
	}
	ex := NewExtractorHTML(config, metadata)
	ex.SetExtractorJS(NewExtractorJS())
	return ex
}

func extractHTML(t *testing.T, ex *ExtractorHTML, pageURL, html string) (*CrawlURI, bool) {
	t.Helper()
	uri, err := ParseUURI(pageURL)
	require.NoError(t, err)
	curi := NewCrawlURI(uri)
	curi.ContentType = "text/html"
	curi.SetRecorder(NewRecorder([]byte(html), "utf-8"))
	ok := ex.Extract(context.Background(), curi)
	return curi, ok
}

func linkStrings(curi *CrawlURI) []string {
	var out []string
	for _, l := range curi.Outlinks() {
		out = append(out, fmt.Sprintf("%s %s %s", l.Target, l.Hop, l.Context))
	}
	return out
}

func TestAnchorHref(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/p/q", `<a href="/x">hi</a>`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://h/x L a/@href"}, linkStrings(curi))
}

func TestBaseHref(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/p/q",
		`<base href="http://b/"><img src="a.png">`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://b/a.png E img/@src"}, linkStrings(curi))
	assert.Equal(t, "http://b/", curi.GetData(DataKeyHTMLBase))
}

func TestBaseHrefFirstWins(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<base href="http://b/"><base href="http://c/"><a href="rel">x</a>`)
	assert.Equal(t, []string{"http://b/rel L a/@href"}, linkStrings(curi))
	assert.Equal(t, "http://b/", curi.GetData(DataKeyHTMLBase))
}

func TestBaseHrefRelative(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/dir/page",
		`<base href="sub/"><a href="x">x</a>`)
	assert.Equal(t, []string{"http://h/dir/sub/x L a/@href"}, linkStrings(curi))
}

func TestMetaRobotsNofollowAborts(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<meta name="robots" content="NoFollow"><a href="/hidden">x</a>`)
	assert.False(t, ok)
	assert.Empty(t, curi.Outlinks())
	assert.Equal(t, "NoFollow", curi.GetData(DataKeyMetaRobots))
}

func TestMetaRobotsNoneAborts(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	_, ok := extractHTML(t, ex, "http://h/", `<meta name="robots" content="none">`)
	assert.False(t, ok)
}

func TestMetaRobotsIgnorePolicy(t *testing.T) {
	ex := newTestExtractor(t, nil, "ignore")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<meta name="robots" content="nofollow"><a href="/visible">x</a>`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://h/visible L a/@href"}, linkStrings(curi))
	assert.Equal(t, "nofollow", curi.GetData(DataKeyMetaRobots))
}

func TestMetaRobotsNoindexOnlyContinues(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<meta name="robots" content="noindex"><a href="/kept">x</a>`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://h/kept L a/@href"}, linkStrings(curi))
}

func TestImgSrcset(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<img srcset="a.png 1x, b.png 2x">`)
	assert.Equal(t, []string{
		"http://h/a.png E img/@srcset",
		"http://h/b.png E img/@srcset",
	}, linkStrings(curi))
}

func TestSourceSrcsetWidthDescriptors(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<source srcset="small.jpg 480w, large.jpg 1080w">`)
	assert.Equal(t, []string{
		"http://h/small.jpg E source/@srcset",
		"http://h/large.jpg E source/@srcset",
	}, linkStrings(curi))
}

func TestLinkRelStylesheetIcon(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<link rel="stylesheet icon" href="s.css">`)
	assert.Equal(t, []string{"http://h/s.css E link[rel='stylesheet']/@href"},
		linkStrings(curi))
}

func TestLinkRelKeywords(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{"icon", `<link rel="icon" href="/fav.ico">`,
			[]string{"http://h/fav.ico E link[rel='icon']/@href"}},
		{"pingback dropped", `<link rel="pingback" href="/ping">`, nil},
		{"dns-prefetch ignored", `<link rel="dns-prefetch" href="http://cdn.example/">`, nil},
		{"preconnect ignored", `<link rel="preconnect" href="http://cdn.example/">`, nil},
		{"alternate navlink", `<link rel="alternate" href="/alt">`,
			[]string{"http://h/alt L link/@href"}},
		{"no rel at all", `<link href="/bare.css">`, nil},
		{"hint then alternate", `<link rel="preconnect next" href="/n">`,
			[]string{"http://h/n L link/@href"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := newTestExtractor(t, nil, "")
			curi, _ := extractHTML(t, ex, "http://h/", tt.html)
			assert.Equal(t, tt.want, linkStrings(curi))
		})
	}
}

func TestFormActions(t *testing.T) {
	t.Run("post dropped by default", func(t *testing.T) {
		ex := newTestExtractor(t, nil, "")
		curi, _ := extractHTML(t, ex, "http://h/",
			`<form action="/go" method="POST"></form>`)
		assert.Empty(t, curi.Outlinks())
	})
	t.Run("post kept when gets-only disabled", func(t *testing.T) {
		config := NewDefaultExtractorConfig()
		config.ExtractOnlyFormGets = false
		ex := newTestExtractor(t, config, "")
		curi, _ := extractHTML(t, ex, "http://h/",
			`<form action="/go" method="POST"></form>`)
		assert.Equal(t, []string{"http://h/go L form/@action"}, linkStrings(curi))
	})
	t.Run("explicit get kept", func(t *testing.T) {
		ex := newTestExtractor(t, nil, "")
		curi, _ := extractHTML(t, ex, "http://h/",
			`<form action="/go" method="get"></form>`)
		assert.Equal(t, []string{"http://h/go L form/@action"}, linkStrings(curi))
	})
	t.Run("implied get kept", func(t *testing.T) {
		ex := newTestExtractor(t, nil, "")
		curi, _ := extractHTML(t, ex, "http://h/", `<form action="/go"></form>`)
		assert.Equal(t, []string{"http://h/go L form/@action"}, linkStrings(curi))
	})
	t.Run("all actions ignorable", func(t *testing.T) {
		config := NewDefaultExtractorConfig()
		config.IgnoreFormActionURLs = true
		ex := newTestExtractor(t, config, "")
		curi, _ := extractHTML(t, ex, "http://h/", `<form action="/go"></form>`)
		assert.Empty(t, curi.Outlinks())
	})
}

func TestFormOffsetsRecorded(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	html := `<p>x</p><form action="/go"><input value="ok"></form>`
	curi, _ := extractHTML(t, ex, "http://h/", html)
	offsets := curi.GetDataList(DataKeyFormOffsets)
	require.Len(t, offsets, 1)
	assert.Equal(t, strings.Index(html, "<form"), offsets[0])
}

func TestFramesAsEmbeds(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", `<iframe src="/frame.html"></iframe>`)
	assert.Equal(t, []string{"http://h/frame.html E iframe/@src"}, linkStrings(curi))

	config := NewDefaultExtractorConfig()
	config.TreatFramesAsEmbedLinks = false
	ex = newTestExtractor(t, config, "")
	curi, _ = extractHTML(t, ex, "http://h/", `<iframe src="/frame.html"></iframe>`)
	assert.Equal(t, []string{"http://h/frame.html L iframe/@src"}, linkStrings(curi))
}

func TestDataURISkipped(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<img src="data:image/png;base64,iVBORw0KGgo=">`)
	assert.Empty(t, curi.Outlinks())
}

func TestCodebaseEmittedTwice(t *testing.T) {
	// codebase surfaces once as a navlink and once as the resolution base
	// for the tag's other resources
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<object codebase="http://cb.example/base/" classid="x.class" archive="a.jar b.jar"></object>`)
	assert.Equal(t, []string{
		"http://cb.example/base/ L object/@codebase",
		"http://cb.example/base/x.class E object",
		"http://cb.example/base/a.jar E object",
		"http://cb.example/base/b.jar E object",
	}, linkStrings(curi))
}

func TestAppletCodeClassSuffix(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<applet codebase="/java/" code="Main"></applet>`)
	assert.Equal(t, []string{
		"http://h/java/ L applet/@codebase",
		"http://h/java/Main.class E applet",
	}, linkStrings(curi))

	curi, _ = extractHTML(t, ex, "http://h/", `<applet code="Main.class"></applet>`)
	assert.Equal(t, []string{"http://h/Main.class E applet"}, linkStrings(curi))
}

func TestRelNofollow(t *testing.T) {
	html := `<a rel="external nofollow" href="/x">x</a>`

	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", html)
	assert.Equal(t, []string{"http://h/x L a/@href"}, linkStrings(curi))

	config := NewDefaultExtractorConfig()
	config.ObeyRelNofollow = true
	ex = newTestExtractor(t, config, "")
	curi, _ = extractHTML(t, ex, "http://h/", html)
	assert.Empty(t, curi.Outlinks())
}

func TestDataRemoteAnchor(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<a data-remote="true" href="/fragment">x</a>`)
	assert.Equal(t, []string{"http://h/fragment E a[data-remote='true']/@href"},
		linkStrings(curi))
}

func TestLazyLoadDataAttributes(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", `<img data-src="/lazy.png">`)
	assert.Equal(t, []string{"http://h/lazy.png E img/@data-src"}, linkStrings(curi))

	curi, _ = extractHTML(t, ex, "http://h/",
		`<img data-lazy-srcset="a.png 1x, b.png 2x">`)
	assert.Equal(t, []string{
		"http://h/a.png E img/@data-lazy-srcset",
		"http://h/b.png E img/@data-lazy-srcset",
	}, linkStrings(curi))

	curi, _ = extractHTML(t, ex, "http://h/", `<div data-full-src="/full.png"></div>`)
	assert.Equal(t, []string{"http://h/full.png E div/@data-full-src"}, linkStrings(curi))
}

func TestSourceDataSrcNotListParsed(t *testing.T) {
	// the singular data-src forms multi-parse on img only; on source the
	// value is one opaque reference
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<source data-src="/a.jpg,/b.jpg">`)
	assert.Equal(t, []string{"http://h/a.jpg,/b.jpg E source/@data-src"},
		linkStrings(curi))
}

func TestMetaRobotsEmptyContentStored(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<meta name="robots" content=""><a href="/kept">x</a>`)
	assert.True(t, ok)
	assert.True(t, curi.ContainsDataKey(DataKeyMetaRobots))
	assert.Equal(t, "", curi.GetData(DataKeyMetaRobots))
	assert.Equal(t, []string{"http://h/kept L a/@href"}, linkStrings(curi))
}

func TestOutlinksSurviveBufferPoisoning(t *testing.T) {
	raw := []byte(`<base href="http://b/"><a href="/x">hi</a><img srcset="a.png 1x, b.png 2x">`)
	uri, err := ParseUURI("http://h/")
	require.NoError(t, err)
	curi := NewCrawlURI(uri)
	curi.ContentType = "text/html"
	rec := NewRecorder(raw, "utf-8")
	curi.SetRecorder(rec)

	ex := newTestExtractor(t, nil, "")
	require.True(t, ex.Extract(context.Background(), curi))

	// poison the backing buffer; emitted links must hold owned copies
	for i := range rec.raw {
		rec.raw[i] = 0
	}
	for i := range raw {
		raw[i] = 0
	}

	assert.Equal(t, []string{
		"http://b/x L a/@href",
		"http://b/a.png E img/@srcset",
		"http://b/b.png E img/@srcset",
	}, linkStrings(curi))
	assert.Equal(t, "http://b/", curi.GetData(DataKeyHTMLBase))
}

func TestMetaRefresh(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/old",
		`<meta http-equiv="refresh" content="5; url='/next'">`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://h/next R meta"}, linkStrings(curi))
}

func TestMetaContentSpeculative(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<meta property="og:image" content="http://img.example/cover.jpg">`)
	assert.Equal(t, []string{"http://img.example/cover.jpg X meta"}, linkStrings(curi))

	curi, _ = extractHTML(t, ex, "http://h/",
		`<meta name="description" content="just words here">`)
	assert.Empty(t, curi.Outlinks())
}

func TestScriptBlock(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<script src="/app.js">var u = "http://x.example/data.json";</script>`)
	assert.Equal(t, []string{
		"http://h/app.js E script/@src",
		"http://x.example/data.json X script",
	}, linkStrings(curi))
}

func TestScriptDisabled(t *testing.T) {
	config := NewDefaultExtractorConfig()
	config.ExtractJavascript = false
	ex := newTestExtractor(t, config, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<script src="/app.js">var u = "http://x.example/data.json";</script>`)
	assert.Equal(t, []string{"http://h/app.js E script/@src"}, linkStrings(curi))
}

func TestUnterminatedScriptBlock(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<script src="/app.js">var u = "http://x.example/skipped.json";`)
	assert.Equal(t, []string{"http://h/app.js E script/@src"}, linkStrings(curi))
}

func TestStyleBlockAndAttribute(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<style>body { background: url(/bg.png); }</style>`)
	assert.Equal(t, []string{"http://h/bg.png E style"}, linkStrings(curi))

	curi, _ = extractHTML(t, ex, "http://h/",
		`<div style="background-image: url('/tile.gif')">x</div>`)
	assert.Equal(t, []string{"http://h/tile.gif E div/@style"}, linkStrings(curi))
}

func TestOnHandlerScript(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<a onclick="window.open('http://x.example/pop.html')" href="/x">x</a>`)
	assert.Equal(t, []string{
		"http://x.example/pop.html X script",
		"http://h/x L a/@href",
	}, linkStrings(curi))
}

func TestJavascriptHref(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<a href="javascript:go('/aj/page.html')">x</a>`)
	assert.Equal(t, []string{"http://h/aj/page.html X script"}, linkStrings(curi))
}

func TestFlashvarsParam(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<param name="flashvars" value="file=http%3A%2F%2Fmedia.example%2Fclip.flv&autostart=true">`)
	assert.Equal(t, []string{"http://media.example/clip.flv X param/@value"},
		linkStrings(curi))
}

func TestFlashvarsAttribute(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<embed flashvars="file=http%3A%2F%2Fmedia.example%2Fclip.flv">`)
	assert.Equal(t, []string{"http://media.example/clip.flv X embed/@flashvars"},
		linkStrings(curi))
}

func TestValueAttribute(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<input type="hidden" value="/go/page.html">`)
	assert.Equal(t, []string{"http://h/go/page.html L input/@value"}, linkStrings(curi))

	config := NewDefaultExtractorConfig()
	config.ExtractValueAttributes = false
	ex = newTestExtractor(t, config, "")
	curi, _ = extractHTML(t, ex, "http://h/",
		`<input type="hidden" value="/go/page.html">`)
	assert.Empty(t, curi.Outlinks())
}

func TestEntityUnescapeInHref(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", `<a href="/p?a=1&amp;b=2">x</a>`)
	require.Len(t, curi.Outlinks(), 1)
	assert.Equal(t, "http://h/p?a=1&b=2", curi.Outlinks()[0].Target.String())
}

func TestConditionalCommentsScanned(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<!--[if IE]><link rel="stylesheet" href="/ie.css"><![endif]-->`)
	assert.Equal(t, []string{"http://h/ie.css E link[rel='stylesheet']/@href"},
		linkStrings(curi))
}

func TestOrdinaryCommentsSkipped(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<!-- <a href="/commented-out">x</a> --><a href="/live">y</a>`)
	assert.Equal(t, []string{"http://h/live L a/@href"}, linkStrings(curi))
}

func TestMaxOutlinksCap(t *testing.T) {
	config := NewDefaultExtractorConfig()
	config.MaxOutlinks = 2
	ex := newTestExtractor(t, config, "")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<a href="/1">1</a><a href="/2">2</a><a href="/3">3</a>`)
	assert.True(t, ok)
	assert.Equal(t, []string{
		"http://h/1 L a/@href",
		"http://h/2 L a/@href",
	}, linkStrings(curi))
}

func TestBadURIRecordedNonFatal(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, ok := extractHTML(t, ex, "http://h/",
		`<a href="http://[bad">x</a><a href="/fine">y</a>`)
	assert.True(t, ok)
	assert.Equal(t, []string{"http://h/fine L a/@href"}, linkStrings(curi))
	assert.NotEmpty(t, curi.NonFatalFailures())
}

func TestDeterministicExtraction(t *testing.T) {
	html := `<base href="http://b/"><a href="/1">1</a>
<img srcset="a.png 1x, b.png 2x"><form action="/s"></form>
<script>u="http://x.example/y.js"</script><link rel="icon" href="/f.ico">`
	ex := newTestExtractor(t, nil, "")
	first, _ := extractHTML(t, ex, "http://h/", html)
	second, _ := extractHTML(t, ex, "http://h/", html)
	assert.Equal(t, linkStrings(first), linkStrings(second))
}

func TestCancellationStopsScan(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	uri, err := ParseUURI("http://h/")
	require.NoError(t, err)
	curi := NewCrawlURI(uri)
	curi.ContentType = "text/html"
	curi.SetRecorder(NewRecorder([]byte(`<a href="/1">1</a><a href="/2">2</a>`), "utf-8"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := ex.Extract(ctx, curi)
	assert.True(t, ok)
	assert.Empty(t, curi.Outlinks())
}

func TestShouldExtractGating(t *testing.T) {
	ex := newTestExtractor(t, nil, "")

	t.Run("non-html extension skipped", func(t *testing.T) {
		uri, _ := ParseUURI("http://h/pic.jpg")
		curi := NewCrawlURI(uri)
		curi.ContentType = "text/html"
		curi.SetRecorder(NewRecorder([]byte(`<a href="/x">x</a>`), "utf-8"))
		assert.False(t, ex.Extract(context.Background(), curi))
		assert.Empty(t, curi.Outlinks())
	})

	t.Run("non-html extension kept when gate disabled", func(t *testing.T) {
		config := NewDefaultExtractorConfig()
		config.IgnoreUnexpectedHTML = false
		lenient := newTestExtractor(t, config, "")
		uri, _ := ParseUURI("http://h/pic.jpg")
		curi := NewCrawlURI(uri)
		curi.ContentType = "text/html"
		curi.SetRecorder(NewRecorder([]byte(`<a href="/x">x</a>`), "utf-8"))
		assert.True(t, lenient.Extract(context.Background(), curi))
		assert.Len(t, curi.Outlinks(), 1)
	})

	t.Run("non-html content type without html markers skipped", func(t *testing.T) {
		uri, _ := ParseUURI("http://h/data")
		curi := NewCrawlURI(uri)
		curi.ContentType = "application/json"
		curi.SetRecorder(NewRecorder([]byte(`{"a": 1}`), "utf-8"))
		assert.False(t, ex.Extract(context.Background(), curi))
	})

	t.Run("html sniffed from body", func(t *testing.T) {
		uri, _ := ParseUURI("http://h/data")
		curi := NewCrawlURI(uri)
		curi.ContentType = "application/octet-stream"
		curi.SetRecorder(NewRecorder([]byte(`<!DOCTYPE html><a href="/x">x</a>`), "utf-8"))
		assert.True(t, ex.Extract(context.Background(), curi))
		assert.Len(t, curi.Outlinks(), 1)
	})

	t.Run("wap content type always extracts", func(t *testing.T) {
		uri, _ := ParseUURI("http://h/card")
		curi := NewCrawlURI(uri)
		curi.ContentType = "text/vnd.wap.wml"
		curi.SetRecorder(NewRecorder([]byte(`<a href="/x">x</a>`), "utf-8"))
		assert.True(t, ex.Extract(context.Background(), curi))
	})
}

func TestMixedQuotingAndBareValues(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/",
		`<a href=/bare>1</a><a href='/single'>2</a><a href="/double">3</a>`)
	assert.Equal(t, []string{
		"http://h/bare L a/@href",
		"http://h/single L a/@href",
		"http://h/double L a/@href",
	}, linkStrings(curi))
}

func TestEmbedElements(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", strings.Join([]string{
		`<img lowsrc="/low.gif">`,
		`<body background="/bg.jpg">`,
		`<img longdesc="/desc.html" src="/pic.png">`,
		`<table datasrc="/data">`,
	}, "\n"))
	assert.Equal(t, []string{
		"http://h/low.gif E img/@lowsrc",
		"http://h/bg.jpg E body/@background",
		"http://h/desc.html E img/@longdesc",
		"http://h/pic.png E img/@src",
		"http://h/data E table/@datasrc",
	}, linkStrings(curi))
}

func TestBlockquoteCite(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	curi, _ := extractHTML(t, ex, "http://h/", `<blockquote cite="/src">q</blockquote>`)
	assert.Equal(t, []string{"http://h/src L blockquote/@cite"}, linkStrings(curi))
}

func TestDecodeExceptionAnnotated(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	uri, _ := ParseUURI("http://h/")
	curi := NewCrawlURI(uri)
	curi.ContentType = "text/html"
	curi.SetRecorder(NewRecorder([]byte("<html><a href=\"/x\">\xff</a></html>"), "utf-8"))
	assert.True(t, ex.Extract(context.Background(), curi))

	found := false
	for _, a := range curi.Annotations() {
		if strings.HasPrefix(a, "decode-exception-count:") {
			found = true
		}
	}
	assert.True(t, found, "expected a decode-exception-count annotation, got %v", curi.Annotations())
}

func TestContentTypeCharsetSkipsSniff(t *testing.T) {
	ex := newTestExtractor(t, nil, "")
	uri, _ := ParseUURI("http://h/")
	curi := NewCrawlURI(uri)
	curi.ContentType = "text/html; charset=utf-8"
	curi.SetRecorder(NewRecorder([]byte(`<html><meta charset="iso-8859-1"><a href="/x">x</a></html>`), "utf-8"))
	assert.True(t, ex.Extract(context.Background(), curi))
	assert.Equal(t, "utf-8", curi.Recorder().Charset())
	assert.Empty(t, curi.Annotations())
}
