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
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
)

// ExtractorConfig contains all configuration options for ExtractorHTML.
// The struct is read-only once the extractor is constructed; a single
// config may back extractors on many workers.
type ExtractorConfig struct {
	// MaxElementLength caps element-name length in the tag scan.
	MaxElementLength int
	// MaxAttributeNameLength caps attribute-name length.
	MaxAttributeNameLength int
	// MaxAttributeValLength caps attribute-value length; longer values are
	// truncated, not rejected.
	MaxAttributeValLength int
	// TreatFramesAsEmbedLinks controls whether FRAME/IFRAME SRC links are
	// treated as embedded resources (like IMG, 'E' hop) or as navigational
	// links.
	TreatFramesAsEmbedLinks bool
	// IgnoreFormActionURLs drops URIs appearing as FORM ACTION attributes.
	IgnoreFormActionURLs bool
	// ExtractOnlyFormGets keeps only ACTION URIs whose METHOD is GET,
	// explicit or implied.
	ExtractOnlyFormGets bool
	// ExtractJavascript scans in-page javascript for strings that appear
	// likely to be URIs. This finds both valid and invalid URIs; attempts
	// to fetch the invalid ones sometimes generate webmaster concerns over
	// odd crawler behavior.
	ExtractJavascript bool
	// ExtractValueAttributes considers URI-like strings found in unusual
	// places such as form VALUE attributes.
	ExtractValueAttributes bool
	// IgnoreUnexpectedHTML skips documents whose URI path ends in a typical
	// non-HTML extension (such as .gif).
	IgnoreUnexpectedHTML bool
	// ObeyRelNofollow drops links carrying a rel=nofollow directive.
	ObeyRelNofollow bool
	// MaxOutlinks caps total emissions per document; excess links are
	// silently dropped.
	MaxOutlinks int
}

// NewDefaultExtractorConfig returns the default extraction configuration.
func NewDefaultExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		MaxElementLength:        64,
		MaxAttributeNameLength:  64,
		MaxAttributeValLength:   2048,
		TreatFramesAsEmbedLinks: true,
		IgnoreFormActionURLs:    false,
		ExtractOnlyFormGets:     true,
		ExtractJavascript:       true,
		ExtractValueAttributes:  true,
		IgnoreUnexpectedHTML:    true,
		ObeyRelNofollow:         false,
		MaxOutlinks:             6000,
	}
}

var (
	javascriptRE = regexp.MustCompile(`(?i)^javascript:`)
	nofollowRE   = regexp.MustCompile(`(?i)\bnofollow\b`)
	dataRemoteRE = regexp.MustCompile(`(?i)data-remote\s*=\s*["']true`)
	dataAttrRE   = regexp.MustCompile(`^data-(?:src|src-small|src-medium|srcset|original|original-set|lazy|lazy-srcset|full-src)$`)
	asciiSpaceRE = regexp.MustCompile(`[\t\n\f\r ]+`)
	quoteStripRE = regexp.MustCompile(`["']`)

	nonHTMLExtRE = regexp.MustCompile(`(?i)^(?:gif|jpe?g|png|tiff?|bmp|avi|mov|mpe?g|mp3|mp4|swf|wav|au|aiff|mid)$`)

	// srcset-family attributes hold comma-separated URL/descriptor lists
	// regardless of element; the data-src singles are parsed the same way
	// only on IMG, where lazy-load libraries put lists in them.
	srcsetListAttrs = map[string]bool{
		"srcset": true, "imagesrcset": true, "data-srcset": true,
		"data-lazy-srcset": true, "data-original-set": true,
	}
	srcsetImgAttrs = map[string]bool{
		"data-src": true, "data-src-small": true, "data-src-medium": true,
	}
)

// ExtractorHTML performs link extraction from an HTML content body using
// regular expressions: no DOM is built, and malformed markup that would
// derail a conformant parser yields whatever links are still recognizable.
//
// An ExtractorHTML is immutable after construction and safe for concurrent
// use across workers; all mutable state lives on the CrawlURI.
type ExtractorHTML struct {
	config   *ExtractorConfig
	metadata *CrawlMetadata
	js       *ExtractorJS

	tags  *tagScanner
	attrs *attrScanner

	linksExtracted atomic.Int64
}

// NewExtractorHTML builds an extractor with compiled scan patterns. A nil
// config selects defaults; a nil metadata selects the default robots
// policy. Javascript handling is off until SetExtractorJS attaches one.
func NewExtractorHTML(config *ExtractorConfig, metadata *CrawlMetadata) *ExtractorHTML {
	if config == nil {
		config = NewDefaultExtractorConfig()
	}
	if metadata == nil {
		metadata = NewCrawlMetadata()
	}
	return &ExtractorHTML{
		config:   config,
		metadata: metadata,
		tags:     newTagScanner(config.MaxElementLength),
		attrs:    newAttrScanner(config.MaxAttributeNameLength, config.MaxAttributeValLength),
	}
}

// SetExtractorJS attaches the javascript extractor used for inline code,
// handler attributes and javascript: URIs. Without one, those are ignored.
func (ex *ExtractorHTML) SetExtractorJS(js *ExtractorJS) {
	ex.js = js
}

// LinksExtracted returns the number of links emitted over the extractor's
// lifetime, across all documents.
func (ex *ExtractorHTML) LinksExtracted() int64 {
	return ex.linksExtracted.Load()
}

// Extract scans the document attached to curi and appends discovered links
// to its outlink list. It returns true when extraction ran to completion
// and false when the document was skipped (not HTML), unreadable, or
// aborted by a robots meta tag. Recoverable problems are recorded on the
// CrawlURI; Extract never panics across this boundary.
//
// Cancelling ctx stops scanning within one tag match; links found before
// the cancellation are kept, and Extract still returns true.
func (ex *ExtractorHTML) Extract(ctx context.Context, curi *CrawlURI) bool {
	if curi.Recorder() == nil || !ex.shouldExtract(curi) {
		return false
	}

	if !strings.Contains(strings.ToLower(curi.ContentType), "charset=") {
		applyContentDeclaredCharset(curi)
	}

	content, decodeErrs, err := curi.Recorder().ContentReplayString()
	if err != nil {
		curi.AddNonFatalFailure(err)
		log.WithError(err).Warnf("failed replay of fetched content for %s", curi.UURI())
		return false
	}
	if decodeErrs > 0 {
		curi.AddAnnotation(fmt.Sprintf("decode-exception-count:%d", decodeErrs))
	}

	aborted := false
	ex.tags.scan(ctx, content, func(m tagMatch) bool {
		switch m.kind {
		case tagComment:
			// consumed, nothing to extract
		case tagMeta:
			if ex.processMeta(curi, m.body) {
				aborted = true
				return false
			}
		case tagGeneric:
			ex.processGeneralTag(curi, m.element, m.body)
			if strings.EqualFold(m.element, "form") {
				curi.AddDataListItem(DataKeyFormOffsets, m.start)
			}
		case tagScriptBlock:
			ex.processScript(curi, m.body, m.openTagEnd)
		case tagStyleBlock:
			ex.processStyle(curi, m.body, m.openTagEnd)
		}
		return true
	})
	return !aborted
}

// shouldExtract gates extraction on whether HTML is plausible here: a
// non-HTML path extension rules the document out (when configured), an
// HTML-family content type rules it in, and otherwise the document head is
// checked for an html or doctype marker.
func (ex *ExtractorHTML) shouldExtract(curi *CrawlURI) bool {
	if ex.config.IgnoreUnexpectedHTML && !isHTMLExpectedHere(curi) {
		return false
	}

	mime := strings.ToLower(curi.ContentType)
	for _, prefix := range []string{
		"text/html", "application/xhtml", "text/vnd.wap.wml",
		"application/vnd.wap.wml", "application/vnd.wap.xhtml",
	} {
		if strings.HasPrefix(mime, prefix) {
			return true
		}
	}

	head := strings.ToLower(curi.Recorder().ContentReplayPrefixString(1000))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

// isHTMLExpectedHere tests whether HTML content is so unexpected at this
// URI (e.g. in place of a GIF) that it should not be scanned.
func isHTMLExpectedHere(curi *CrawlURI) bool {
	path := curi.UURI().Path()
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return true
	}
	if dot < len(path)-5 {
		// extension too long to recognize
		return true
	}
	return !nonHTMLExtRE.MatchString(path[dot+1:])
}

// processGeneralTag scans the attributes of one open tag and applies the
// per-attribute semantics. Several attributes only gain meaning once the
// whole tag has been seen (HREF+REL, ACTION+METHOD, CODEBASE+resources,
// NAME+VALUE), so those are buffered and finished at end of tag.
func (ex *ExtractorHTML) processGeneralTag(curi *CrawlURI, element, tagBody string) {
	elementLower := strings.ToLower(element)

	// OBJECT and APPLET tags
	var codebase string
	var hasCodebase bool
	var resources []string

	// FORM tags
	var action, method string
	var actionContext LinkContext
	var hasAction, hasMethod bool

	// VALUE whose interpretation depends on an accompanying NAME
	var valueVal, nameVal string
	var valueContext LinkContext
	var hasValue bool

	// A and LINK tags
	var linkHref, linkRel string
	var linkContext LinkContext
	var hasLinkHref, hasLinkRel bool

	framesAsEmbeds := ex.config.TreatFramesAsEmbedLinks
	isFrame := elementLower == "frame" || elementLower == "iframe"
	dataRemote := elementLower == "a" && dataRemoteRE.MatchString(tagBody)

	ex.attrs.scan(tagBody, func(attr attrMatch) {
		value := attr.value
		switch attr.bucket {
		case attrHref:
			context := elementContext(element, attr.name)
			if dataRemote {
				context = LinkContextDataRemoteHref
			}
			switch {
			case elementLower == "base":
				if !curi.ContainsDataKey(DataKeyHTMLBase) {
					base, err := curi.BaseURI().Resolve(value)
					if err != nil {
						curi.AddNonFatalFailure(err)
						break
					}
					curi.SetBaseURI(base)
					curi.PutData(DataKeyHTMLBase, base.String())
				}
			case (elementLower == "link" || elementLower == "a") && !hasLinkHref:
				// delay until end of tag; REL may still follow
				linkHref, linkContext, hasLinkHref = value, context, true
			case context == LinkContextDataRemoteHref:
				ex.processEmbed(curi, value, context, HopEmbed)
			default:
				ex.processLink(curi, value, context)
			}
		case attrAction:
			if !ex.config.IgnoreFormActionURLs {
				action, hasAction = value, true
				actionContext = elementContext(element, attr.name)
			}
		case attrScriptHandler:
			ex.processScriptCode(curi, value)
		case attrSrcLike:
			if strings.HasPrefix(strings.ToLower(value), "data:") {
				break
			}
			hop := HopEmbed
			if !framesAsEmbeds && isFrame {
				hop = HopNavlink
			}
			ex.processEmbed(curi, value, elementContext(element, attr.name), hop)
		case attrCodebase:
			codebase, hasCodebase = value, true
			ex.processLink(curi, value, elementContext(element, attr.name))
		case attrClassidData:
			resources = append(resources, value)
		case attrArchive:
			resources = append(resources, strings.Fields(value)...)
		case attrCode:
			if elementLower == "applet" && !strings.HasSuffix(strings.ToLower(value), ".class") {
				value += ".class"
			}
			resources = append(resources, value)
		case attrValue:
			valueVal, hasValue = value, true
			valueContext = elementContext(element, attr.name)
		case attrStyle:
			processStyleCode(ex, curi, value, elementContext(element, attr.name))
		case attrMethod:
			method, hasMethod = value, true
		case attrOther:
			nameLower := strings.ToLower(attr.name)
			switch nameLower {
			case "name":
				nameVal = value
			case "flashvars":
				ex.considerQueryStringValues(curi, value,
					elementContext(element, attr.name), HopSpeculative)
			case "rel":
				linkRel, hasLinkRel = value, true
			}
			if dataAttrRE.MatchString(nameLower) {
				hop := HopEmbed
				if !framesAsEmbeds && isFrame {
					hop = HopNavlink
				}
				ex.processEmbed(curi, value, elementContext(element, attr.name), hop)
			}
		}
	})

	if len(resources) > 0 {
		var codebaseURI *UURI
		if hasCodebase {
			u, err := curi.BaseURI().Resolve(codebase)
			if err != nil {
				curi.AddNonFatalFailure(err)
			} else {
				codebaseURI = u
			}
		}
		for _, res := range resources {
			if codebaseURI != nil {
				u, err := codebaseURI.Resolve(res)
				if err != nil {
					curi.AddNonFatalFailure(err)
					continue
				}
				res = u.String()
			}
			ex.processEmbed(curi, res, LinkContext(elementLower), HopEmbed)
		}
	}

	// finish LINK and A now both HREF and REL are available
	if hasLinkHref {
		switch {
		case elementLower == "link":
			if hasLinkRel {
				ex.processLinkTagWithRel(curi, linkHref, linkRel)
			}
		case linkContext == LinkContextDataRemoteHref:
			ex.processEmbed(curi, linkHref, linkContext, HopEmbed)
		case hasLinkRel && ex.config.ObeyRelNofollow && nofollowRE.MatchString(linkRel):
			log.Tracef("ignoring nofollow link: %s", linkHref)
		default:
			ex.processLink(curi, linkHref, linkContext)
		}
	}

	// finish form action now METHOD is available
	if hasAction {
		if !hasMethod || strings.EqualFold(method, "GET") || !ex.config.ExtractOnlyFormGets {
			ex.processLink(curi, action, actionContext)
		}
	}

	// finish VALUE now NAME is available
	if hasValue {
		if elementLower == "param" && strings.EqualFold(nameVal, "flashvars") {
			ex.considerQueryStringValues(curi, valueVal, valueContext, HopSpeculative)
		} else if ex.config.ExtractValueAttributes {
			ex.considerIfLikelyURI(curi, valueVal, valueContext, HopNavlink)
		}
	}
}

// processLinkTagWithRel applies the LINK element's rel keywords, in order,
// per https://html.spec.whatwg.org/multipage/links.html#linkTypes. The
// first resource-type keyword decides the emission; pingbacks are never
// extracted; connection hints are skipped; any other keyword makes the
// href an ordinary navigational link.
func (ex *ExtractorHTML) processLinkTagWithRel(curi *CrawlURI, href, rel string) {
	emitAsNavlink := false
	for _, keyword := range asciiSpaceRE.Split(rel, -1) {
		linkType := strings.ToLower(keyword)
		switch linkType {
		case "icon", "stylesheet", "modulepreload", "prefetch", "prerender":
			ex.processEmbed(curi, href, relContext(linkType), HopEmbed)
			return
		case "pingback":
			return
		case "dns-prefetch", "preconnect", "":
			// connection hints carry no fetchable document
		default:
			emitAsNavlink = true
		}
	}
	if emitAsNavlink {
		ex.processLink(curi, href, "link/@href")
	}
}

// processMeta handles META tags: robots directives, refresh redirects, and
// URI-like content values. It returns true when a robots nofollow/none
// directive should abort extraction for the whole document.
func (ex *ExtractorHTML) processMeta(curi *CrawlURI, tagBody string) bool {
	var name, httpEquiv, content string
	var contentSeen bool
	ex.attrs.scan(tagBody, func(attr attrMatch) {
		switch strings.ToLower(attr.name) {
		case "name":
			name = attr.value
		case "http-equiv":
			httpEquiv = attr.value
		case "content":
			content = attr.value
			contentSeen = true
		}
	})

	switch {
	case strings.EqualFold(name, "robots") && contentSeen:
		curi.PutData(DataKeyMetaRobots, content)
		lower := strings.ToLower(content)
		if ex.metadata.RobotsPolicy().ObeyMetaRobotsNofollow() &&
			(strings.Contains(lower, "nofollow") || strings.Contains(lower, "none")) {
			log.Debugf("link extraction skipped due to robots meta-tag for %s", curi.UURI())
			return true
		}
	case strings.EqualFold(httpEquiv, "refresh") && contentSeen:
		if i := strings.IndexByte(content, '='); i >= 0 {
			refreshURI := quoteStripRE.ReplaceAllString(content[i+1:], "")
			ex.addLink(curi, refreshURI, LinkContextMeta, HopRefer)
		}
	case contentSeen:
		if IsVeryLikelyURI(SpeculativeFixup(content, curi.BaseURI())) {
			ex.addLink(curi, content, LinkContextMeta, HopSpeculative)
		}
	}
	return false
}

// processScript handles a whole script block: the open tag is scanned like
// any other tag, then the code body goes to the javascript extractor.
func (ex *ExtractorHTML) processScript(curi *CrawlURI, block string, endOfOpenTag int) {
	ex.processGeneralTag(curi, block[:len("script")], block[:endOfOpenTag])
	ex.processScriptCode(curi, block[endOfOpenTag:])
}

// processStyle handles a whole style block: the open tag is scanned like
// any other tag, then the sheet body is parsed for URIs.
func (ex *ExtractorHTML) processStyle(curi *CrawlURI, block string, endOfOpenTag int) {
	ex.processGeneralTag(curi, block[:len("style")], block[:endOfOpenTag])
	processStyleCode(ex, curi, block[endOfOpenTag:], "style")
}

// processScriptCode forwards javascript source to the attached extractor.
func (ex *ExtractorHTML) processScriptCode(curi *CrawlURI, code string) {
	if ex.js != nil && ex.config.ExtractJavascript {
		ex.js.ConsiderStrings(ex, curi, code)
	}
}

// processLink handles generic HREF-style values. javascript: pseudo-URIs
// are routed to the script extractor rather than emitted.
func (ex *ExtractorHTML) processLink(curi *CrawlURI, value string, context LinkContext) {
	if javascriptRE.MatchString(value) {
		ex.processScriptCode(curi, value[len("javascript:"):])
		return
	}
	log.Tracef("link: %s from %s", value, curi.UURI())
	ex.addLink(curi, value, context, HopNavlink)
}

// processEmbed emits an embedded-resource link. Contexts naming a
// srcset-family attribute are parsed as comma-separated URL/descriptor
// lists, each URL emitted individually.
func (ex *ExtractorHTML) processEmbed(curi *CrawlURI, value string, context LinkContext, hop Hop) {
	if isSrcsetContext(context) {
		ex.processSrcset(curi, value, context, hop)
		return
	}
	ex.addLink(curi, value, context, hop)
}

func isSrcsetContext(context LinkContext) bool {
	attr := context.attributeName()
	if srcsetListAttrs[attr] {
		return true
	}
	return context.elementName() == "img" && srcsetImgAttrs[attr]
}

// srcsetTokenRE matches one URL plus optional descriptor at the head of a
// srcset list. Descriptors may contain commas only inside parentheses.
var srcsetTokenRE = regexp.MustCompile(`^[\s,]*(\S*[^,\s])(?:\s(?:[^,(]+|\([^)]*(?:\)|$))*)?`)

func (ex *ExtractorHTML) processSrcset(curi *CrawlURI, value string, context LinkContext, hop Hop) {
	rest := value
	for rest != "" {
		loc := srcsetTokenRE.FindStringSubmatchIndex(rest)
		if loc == nil || loc[1] == 0 {
			break
		}
		ex.addLink(curi, rest[loc[2]:loc[3]], context, hop)
		rest = rest[loc[1]:]
	}
}

// considerQueryStringValues treats a query-string-like value as
// key=value[&key=value]* pairings and tests each value for URI-likeness.
func (ex *ExtractorHTML) considerQueryStringValues(curi *CrawlURI, queryString string, context LinkContext, hop Hop) {
	for _, pair := range strings.Split(queryString, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			continue
		}
		value, err := url.QueryUnescape(kv[1])
		if err != nil {
			// still consider values the decoder rejects
			value = kv[1]
		}
		ex.considerIfLikelyURI(curi, value, context, hop)
	}
}

// considerIfLikelyURI emits the candidate only when it passes the URI
// heuristic.
func (ex *ExtractorHTML) considerIfLikelyURI(curi *CrawlURI, candidate string, context LinkContext, hop Hop) {
	if IsVeryLikelyURI(candidate) {
		ex.addLink(curi, candidate, context, hop)
	}
}

// addLink resolves value against the document base and appends the link,
// honoring the per-document outlink cap. Context strings are copied so no
// link aliases the replay buffer.
func (ex *ExtractorHTML) addLink(curi *CrawlURI, value string, context LinkContext, hop Hop) bool {
	if len(curi.Outlinks()) >= ex.config.MaxOutlinks {
		return false
	}
	target, err := curi.BaseURI().Resolve(value)
	if err != nil {
		curi.AddNonFatalFailure(err)
		return false
	}
	curi.AddOutlink(&DiscoveredLink{
		Target:  target,
		Hop:     hop,
		Context: LinkContext(strings.Clone(string(context))),
	})
	ex.linksExtracted.Add(1)
	return true
}
