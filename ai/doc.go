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


// Package ai provides the embedding abstractions used by anadex.
//
// The embedding model is an external black box reached through the Embedder
// interface. Adapter wraps an Embedder and enforces the fixed vector
// dimensionality the catalog requires; a failing embedder degrades a single
// item to a zero vector instead of aborting the batch, with the degradation
// surfaced as data on the Embedding result.
package ai
