// Package label standardizes free-text analyte labels into canonical slugs.
//
// Slugify transliterates a raw label to a lowercase ASCII slug; Normalize
// additionally resolves the slug through an ordered synonym table so that
// spelling variants of the same test share one semantic key for embedding.
package label
