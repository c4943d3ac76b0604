// Copyright 2025 Poiesic Systems
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


// Package hl7 extracts analyte catalog candidates from laboratory HL7 feeds.
//
// The extractor handles exactly one adjacency pattern: an MFE definition
// segment immediately followed by an OM1 observation segment. It is not a
// general HL7 parser; segments are pipe-delimited lines with caret-delimited
// sub-fields, and anything outside the MFE/OM1 pattern is ignored.
//
// Extraction deduplicates candidates on a composite key and preserves
// first-seen order, so two runs over the same input produce identical output.
// The package also writes and re-parses the human-readable extraction report
// used by downstream catalog builds.
package hl7
