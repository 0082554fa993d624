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

import "github.com/sirupsen/logrus"

// log is the package logger. Extraction-path logging stays at Debug/Trace,
// except an Info note for an unknown declared charset and a Warn when the
// fetched content cannot be replayed; per-attribute work never logs above
// Trace.
var log = logrus.NewEntry(logrus.StandardLogger())

// SetLogger replaces the package logger, e.g. to attach crawl-job fields.
func SetLogger(entry *logrus.Entry) {
	log = entry
}
