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

import "fmt"

// RobotsPolicy decides how robots directives are honored: both robots.txt
// rules consulted before fetching and robots META tags seen during
// extraction.
type RobotsPolicy struct {
	name                   string
	obeyRobotsTxt          bool
	obeyMetaRobotsNofollow bool
}

// Name returns the policy's registry name.
func (p *RobotsPolicy) Name() string {
	return p.name
}

// ObeyRobotsTxt reports whether robots.txt rules block fetches.
func (p *RobotsPolicy) ObeyRobotsTxt() bool {
	return p.obeyRobotsTxt
}

// ObeyMetaRobotsNofollow reports whether a robots META tag with nofollow
// or none stops link extraction for the document.
func (p *RobotsPolicy) ObeyMetaRobotsNofollow() bool {
	return p.obeyMetaRobotsNofollow
}

// StandardRobotsPolicies are the named policies selectable by
// configuration: "obey" (and its older alias "classic") honors both
// robots.txt and meta directives, "ignore" honors neither.
var StandardRobotsPolicies = map[string]*RobotsPolicy{
	"obey":    {name: "obey", obeyRobotsTxt: true, obeyMetaRobotsNofollow: true},
	"classic": {name: "classic", obeyRobotsTxt: true, obeyMetaRobotsNofollow: true},
	"ignore":  {name: "ignore", obeyRobotsTxt: false, obeyMetaRobotsNofollow: false},
}

// CrawlMetadata carries crawl-wide settings the extractor consults, chiefly
// the robots honoring policy.
type CrawlMetadata struct {
	policy *RobotsPolicy
}

// NewCrawlMetadata returns metadata with the "obey" robots policy.
func NewCrawlMetadata() *CrawlMetadata {
	return &CrawlMetadata{policy: StandardRobotsPolicies["obey"]}
}

// SetRobotsPolicyName selects a policy from StandardRobotsPolicies.
func (m *CrawlMetadata) SetRobotsPolicyName(name string) error {
	policy, ok := StandardRobotsPolicies[name]
	if !ok {
		return fmt.Errorf("unknown robots policy %q", name)
	}
	m.policy = policy
	return nil
}

// RobotsPolicy returns the active policy.
func (m *CrawlMetadata) RobotsPolicy() *RobotsPolicy {
	return m.policy
}
