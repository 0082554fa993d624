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
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsCacheTTL bounds how long fetched robots.txt rules are reused.
const robotsCacheTTL = 30 * time.Minute

// CrawlServer is the per-host record the fetch path consults: cached
// robots.txt rules plus when they were obtained.
type CrawlServer struct {
	// Host is the scheme://authority key this record covers.
	Host string

	rules   *robotstxt.RobotsData
	fetched time.Time
}

// ServerCache hands out CrawlServer records keyed by scheme and authority,
// fetching and caching robots.txt as needed. It is safe for concurrent use.
type ServerCache struct {
	client    *http.Client
	userAgent string

	mu      sync.RWMutex
	servers map[string]*CrawlServer
}

// NewServerCache builds a cache using the given HTTP client for robots.txt
// fetches. A nil client selects a default with a 10 second timeout.
func NewServerCache(client *http.Client, userAgent string) *ServerCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ServerCache{
		client:    client,
		userAgent: userAgent,
		servers:   make(map[string]*CrawlServer),
	}
}

// Allowed reports whether the policy permits fetching u. When the policy
// ignores robots.txt, no fetch happens. Unreachable or malformed robots.txt
// files allow the fetch; an explicit 5xx is treated as disallow-all by the
// robots library.
func (sc *ServerCache) Allowed(u *UURI, policy *RobotsPolicy) bool {
	if policy == nil || !policy.ObeyRobotsTxt() {
		return true
	}
	server := sc.serverFor(u)
	if server == nil || server.rules == nil {
		return true
	}
	path := u.Path()
	if path == "" {
		path = "/"
	}
	return server.rules.TestAgent(path, sc.userAgent)
}

func (sc *ServerCache) serverFor(u *UURI) *CrawlServer {
	key := u.Scheme() + "://" + u.Authority()

	sc.mu.RLock()
	server, ok := sc.servers[key]
	sc.mu.RUnlock()
	if ok && time.Since(server.fetched) < robotsCacheTTL {
		return server
	}

	server = &CrawlServer{
		Host:    key,
		rules:   sc.fetchRobots(key + "/robots.txt"),
		fetched: time.Now(),
	}
	sc.mu.Lock()
	sc.servers[key] = server
	sc.mu.Unlock()
	return server
}

func (sc *ServerCache) fetchRobots(robotsURL string) *robotstxt.RobotsData {
	req, err := http.NewRequest(http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	if sc.userAgent != "" {
		req.Header.Set("User-Agent", sc.userAgent)
	}
	resp, err := sc.client.Do(req)
	if err != nil {
		log.WithError(err).Debugf("robots.txt fetch failed for %s", robotsURL)
		return nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}
	rules, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		log.WithError(err).Debugf("unparseable robots.txt at %s", robotsURL)
		return nil
	}
	return rules
}
