// Package milvus provides a client for the external vector collection
// service over its v2 RESTful API. It bootstraps the catalog collection
// schema and bulk-loads entries produced by the catalog builder; querying
// the collection itself is left to the service.
package milvus
