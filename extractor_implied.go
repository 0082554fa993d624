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

// ExtractorImpliedURI finds 'implied' URIs inside other URIs: when a
// discovered link matches the trigger expression, a new URI is built from
// the format template using the trigger's capture groups. Unlike the other
// extractors it works on links discovered by previous extractors, so it
// runs after them.
type ExtractorImpliedURI struct {
	// Trigger is the matching expression; it must match the entire link
	// target. Its capture groups feed the Format template.
	Trigger *regexp.Regexp
	// Format is the replacement template ($1-style references) building the
	// implied URI.
	Format string
	// RemoveTriggerURIs removes each matched link from the outlink list
	// after its implied URI is added.
	RemoveTriggerURIs bool
	// MaxOutlinks caps the document's outlink list; zero means the default.
	MaxOutlinks int
}

// Extract runs the implied-URI pass over the outlinks already on curi.
func (ex *ExtractorImpliedURI) Extract(curi *CrawlURI) {
	if ex.Trigger == nil {
		return
	}
	max := ex.MaxOutlinks
	if max <= 0 {
		max = NewDefaultExtractorConfig().MaxOutlinks
	}

	links := append([]*DiscoveredLink(nil), curi.Outlinks()...)
	for _, link := range links {
		implied, ok := extractImplied(link.Target.String(), ex.Trigger, ex.Format)
		if !ok {
			continue
		}
		target, err := ParseUURI(implied)
		if err != nil {
			log.WithError(err).Debugf("bad implied uri %q", implied)
			continue
		}
		if len(curi.Outlinks()) < max {
			curi.AddOutlink(&DiscoveredLink{
				Target:  target,
				Hop:     HopInferred,
				Context: LinkContextInferredMisc,
			})
		}
		if ex.RemoveTriggerURIs {
			if curi.RemoveOutlink(link) {
				log.Debugf("%s removed from %s outlinks", link.Target, curi.UURI())
			}
		}
	}
}

// extractImplied returns the implied URI for uri, or ok=false when the
// trigger does not match the whole string.
func extractImplied(uri string, trigger *regexp.Regexp, format string) (string, bool) {
	m := trigger.FindStringSubmatchIndex(uri)
	if m == nil || m[0] != 0 || m[1] != len(uri) {
		return "", false
	}
	return string(trigger.ExpandString(nil, format, uri, m)), true
}
