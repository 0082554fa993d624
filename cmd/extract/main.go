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

// krait-extract fetches URLs and prints the links the HTML extractor
// discovers in them, one "target HOP context" line each. It is a
// diagnostic front end for the extraction core; the crawl engine proper
// drives the same code through its processing chain.
//
// Usage:
//
//	krait-extract [flags] URL...
//
// Flags:
//
//	--robots POLICY   robots honoring policy: obey, classic, ignore
//	--accept GLOB     only print links whose host matches the glob
//	--workers N       extract the given URLs on N parallel workers
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"

	"github.com/agentberlin/krait"
)

const (
	userAgent   = "krait-extract/1.0"
	maxBodySize = 10 * 1024 * 1024
)

func main() {
	fs := flag.NewFlagSet("krait-extract", flag.ContinueOnError)
	robotsPolicy := fs.String("robots", "obey", "robots honoring policy (obey, classic, ignore)")
	acceptGlob := fs.String("accept", "", "only print links whose host matches this glob")
	workers := fs.Int("workers", 1, "number of parallel extraction workers")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: krait-extract [flags] URL...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	urls := fs.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "krait-extract: no URL specified")
		fs.Usage()
		os.Exit(1)
	}

	metadata := krait.NewCrawlMetadata()
	if err := metadata.SetRobotsPolicyName(*robotsPolicy); err != nil {
		fmt.Fprintf(os.Stderr, "krait-extract: %v\n", err)
		names := make([]string, 0, len(krait.StandardRobotsPolicies))
		for name := range krait.StandardRobotsPolicies {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "known policies: %s\n", strings.Join(names, ", "))
		os.Exit(1)
	}

	var accept glob.Glob
	if *acceptGlob != "" {
		var err error
		if accept, err = glob.Compile(*acceptGlob); err != nil {
			fmt.Fprintf(os.Stderr, "krait-extract: bad --accept glob: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := &http.Client{Timeout: 30 * time.Second}
	servers := krait.NewServerCache(client, userAgent)
	extractor := krait.NewExtractorHTML(nil, metadata)
	extractor.SetExtractorJS(krait.NewExtractorJS())

	var outMu sync.Mutex
	pool := krait.NewWorkerPool(ctx, *workers, len(urls))
	for _, rawURL := range urls {
		rawURL := rawURL
		pool.Submit(func(ctx context.Context) {
			lines, err := extractOne(ctx, client, servers, extractor, metadata, rawURL, accept)
			if err != nil {
				logrus.WithError(err).Warnf("skipping %s", rawURL)
				return
			}
			outMu.Lock()
			defer outMu.Unlock()
			for _, line := range lines {
				fmt.Println(line)
			}
		})
	}
	pool.StopAndWait()
}

func extractOne(ctx context.Context, client *http.Client, servers *krait.ServerCache,
	extractor *krait.ExtractorHTML, metadata *krait.CrawlMetadata,
	rawURL string, accept glob.Glob) ([]string, error) {

	uri, err := krait.ParseUURI(rawURL)
	if err != nil {
		return nil, err
	}
	if !servers.Allowed(uri, metadata.RobotsPolicy()) {
		return nil, fmt.Errorf("disallowed by robots.txt")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	charset := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = params["charset"]
	}

	curi := krait.NewCrawlURI(uri)
	curi.ContentType = contentType
	curi.SetRecorder(krait.NewRecorder(body, charset))

	extractor.Extract(ctx, curi)

	var lines []string
	for _, link := range curi.Outlinks() {
		if accept != nil && !accept.Match(link.Target.Hostname()) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", link.Target, link.Hop, link.Context))
	}
	return lines, nil
}
