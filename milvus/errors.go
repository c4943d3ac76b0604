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


package milvus

import "errors"

var (
	// ErrURIRequired indicates that no service URI was provided.
	ErrURIRequired = errors.New("service URI is required")

	// ErrInvalidDimension indicates an invalid vector dimension.
	ErrInvalidDimension = errors.New("dimension must be positive")

	// ErrInvalidBatchSize indicates an invalid insert batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrServiceError indicates that the collection service rejected a request.
	ErrServiceError = errors.New("collection service error")

	// ErrServiceUnavailable indicates a transient server-side failure.
	ErrServiceUnavailable = errors.New("collection service unavailable")
)
