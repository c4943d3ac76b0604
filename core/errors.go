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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCatalogEntry indicates a CatalogEntry failed validation.
	ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

	// ErrInvalidExtractionRecord indicates an ExtractionRecord failed validation.
	ErrInvalidExtractionRecord = errors.New("invalid extraction record")

	// ErrEmptyAnalyteCode indicates the AnalyteCode field is empty.
	ErrEmptyAnalyteCode = errors.New("analyte code cannot be empty")

	// ErrEmptyLabel indicates the Label field is empty.
	ErrEmptyLabel = errors.New("label cannot be empty")

	// ErrVectorDimension indicates a vector does not have the expected length.
	ErrVectorDimension = errors.New("vector has wrong dimension")

	// ErrFieldTooLong indicates a string field exceeds the collection schema limit.
	ErrFieldTooLong = errors.New("field exceeds maximum length")
)
