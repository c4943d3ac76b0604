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


// Package store provides the storage abstraction layer for anadex.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, allowing different storage backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction:
//
//	repo, err := badger.NewRepository(path)  // returns store.CatalogRepository
//
// Internal package constructors (newBackend, etc.) may return concrete types
// since they're only used within the implementation package.
//
// # Architecture
//
// The store layer follows the Repository pattern:
//
//   - Repository: common operations (similarity scan, transactions, Close)
//   - CatalogRepository: operations for catalog entries
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support. Pass context.Background() for operations without
// specific timeout requirements.
package store
