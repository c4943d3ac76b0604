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


// Package search ranks catalog entries by semantic similarity to a query label.
//
// The Searcher normalizes the query the same way catalog labels were
// normalized at build time, embeds it through the fixed-dimension adapter,
// and ranks entries by cosine similarity against a threshold. It operates on
// an already-built record set; the vector collection's own ANN search is a
// separate, external concern.
package search
