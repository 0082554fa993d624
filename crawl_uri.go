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

// Data map keys the extractor writes for downstream processors.
const (
	// DataKeyMetaRobots holds the raw content of a <meta name="robots"> tag.
	DataKeyMetaRobots = "meta-robots"
	// DataKeyFormOffsets holds the byte offsets of FORM open tags, used by
	// form-credential injection later in the processing chain.
	DataKeyFormOffsets = "form-offsets"
	// DataKeyHTMLBase is set once when a <base href> installs a new base URI.
	DataKeyHTMLBase = "html-base"
)

// CrawlURI is the per-fetch record an extractor operates on: the fetched
// URI plus the mutable extraction state (base URI, outlinks, annotations,
// recoverable failures, side-channel data).
//
// A CrawlURI is owned by exactly one worker for the duration of extraction
// and is not safe for concurrent use. Extractors never retain references to
// it past their return.
type CrawlURI struct {
	uri  *UURI
	base *UURI

	// ContentType is the MIME type string from the fetch response.
	ContentType string

	rec *Recorder

	outlinks         []*DiscoveredLink
	annotations      []string
	nonFatalFailures []error
	data             map[string]interface{}
}

// NewCrawlURI creates a record for the given fetched URI. The base URI
// starts equal to the request URI.
func NewCrawlURI(uri *UURI) *CrawlURI {
	return &CrawlURI{uri: uri}
}

// UURI returns the URI that was fetched.
func (c *CrawlURI) UURI() *UURI {
	return c.uri
}

// BaseURI returns the URI against which relative references resolve. It is
// the request URI until a <base href> overrides it.
func (c *CrawlURI) BaseURI() *UURI {
	if c.base != nil {
		return c.base
	}
	return c.uri
}

// SetBaseURI overrides the resolution base.
func (c *CrawlURI) SetBaseURI(base *UURI) {
	c.base = base
}

// SetRecorder attaches the fetched-content recorder.
func (c *CrawlURI) SetRecorder(rec *Recorder) {
	c.rec = rec
}

// Recorder returns the fetched-content recorder, or nil before a fetch.
func (c *CrawlURI) Recorder() *Recorder {
	return c.rec
}

// AddOutlink appends a discovered link. Callers enforce any outlink cap;
// see ExtractorHTML.addLink.
func (c *CrawlURI) AddOutlink(link *DiscoveredLink) {
	c.outlinks = append(c.outlinks, link)
}

// Outlinks returns the ordered list of discovered links.
func (c *CrawlURI) Outlinks() []*DiscoveredLink {
	return c.outlinks
}

// RemoveOutlink removes the first outlink equal to the given link record.
// Returns whether a link was removed.
func (c *CrawlURI) RemoveOutlink(link *DiscoveredLink) bool {
	for i, l := range c.outlinks {
		if l == link {
			c.outlinks = append(c.outlinks[:i], c.outlinks[i+1:]...)
			return true
		}
	}
	return false
}

// AddAnnotation records a short processing note, e.g. charset anomalies.
func (c *CrawlURI) AddAnnotation(a string) {
	c.annotations = append(c.annotations, a)
}

// Annotations returns all processing notes in the order recorded.
func (c *CrawlURI) Annotations() []string {
	return c.annotations
}

// HasAnnotation reports whether an annotation was recorded.
func (c *CrawlURI) HasAnnotation(a string) bool {
	for _, x := range c.annotations {
		if x == a {
			return true
		}
	}
	return false
}

// AddNonFatalFailure records a recoverable error. Extraction continues; the
// failure travels with the record for logging and reporting.
func (c *CrawlURI) AddNonFatalFailure(err error) {
	c.nonFatalFailures = append(c.nonFatalFailures, err)
}

// NonFatalFailures returns the recoverable errors recorded so far.
func (c *CrawlURI) NonFatalFailures() []error {
	return c.nonFatalFailures
}

// PutData stores a value in the cross-processor side channel.
func (c *CrawlURI) PutData(key string, value interface{}) {
	if c.data == nil {
		c.data = make(map[string]interface{})
	}
	c.data[key] = value
}

// GetData returns the value stored under key, or nil.
func (c *CrawlURI) GetData(key string) interface{} {
	return c.data[key]
}

// ContainsDataKey reports whether key has been stored.
func (c *CrawlURI) ContainsDataKey(key string) bool {
	_, ok := c.data[key]
	return ok
}

// AddDataListItem appends a value to the list stored under key, creating
// the list on first use.
func (c *CrawlURI) AddDataListItem(key string, value interface{}) {
	if c.data == nil {
		c.data = make(map[string]interface{})
	}
	list, _ := c.data[key].([]interface{})
	c.data[key] = append(list, value)
}

// GetDataList returns the list stored under key, or nil.
func (c *CrawlURI) GetDataList(key string) []interface{} {
	list, _ := c.data[key].([]interface{})
	return list
}
