// Package metadata reads assembly descriptions: the serialized symbol model
// an external dumper writes for each assembly, as JSON or msgpack. Decoded
// documents can be cached on disk keyed by the content digest of the file.
package metadata
