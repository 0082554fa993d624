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

// Package testutil provides shared test utilities for krait tests: an HTTP
// fixture server with pages exercising the extraction paths, and common
// test data.
package testutil

import (
	"net/http"
	"net/http/httptest"
)

// Test data shared across tests
var (
	LinksPageHTML = []byte(`<!DOCTYPE html>
<html>
<head>
<title>Fixture</title>
<link rel="stylesheet" href="/styles/site.css">
</head>
<body>
<a href="/about">About</a>
<a href="https://elsewhere.example/out">Out</a>
<img src="/img/logo.png" srcset="/img/logo.png 1x, /img/logo@2x.png 2x">
<form action="/search" method="GET"><input name="q"></form>
</body>
</html>
`)
	MetaNofollowHTML = []byte(`<html><head>
<meta name="robots" content="noindex,nofollow">
</head><body><a href="/hidden">hidden</a></body></html>
`)
	RobotsFile = `
User-agent: *
Allow: /allowed
Disallow: /disallowed
`
)

// NewTestServer creates a started HTTP fixture server. Callers must Close
// it.
func NewTestServer() *httptest.Server {
	srv := NewUnstartedTestServer()
	srv.Start()
	return srv
}

// NewUnstartedTestServer creates an unstarted HTTP fixture server with all
// endpoints configured.
func NewUnstartedTestServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write(LinksPageHTML)
	})

	mux.HandleFunc("/meta-nofollow", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write(MetaNofollowHTML)
	})

	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><meta http-equiv=\"content-type\" content=\"text/html; charset=iso-8859-1\"></head><body><a href=\"/caf\xe9\">caf\xe9</a></body></html>"))
	})

	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("not html at all"))
	})

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(RobotsFile))
	})

	mux.HandleFunc("/allowed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><a href="/allowed/next">next</a></body></html>`))
	})

	mux.HandleFunc("/disallowed", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body>blocked by robots</body></html>`))
	})

	return httptest.NewUnstartedServer(mux)
}
