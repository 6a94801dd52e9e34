// Package pkguid provides helpers for generating unique identifiers.
//
// String IDs (UUIDv7) tag requests for log correlation. Numeric Snowflake IDs
// name temporary and fallback files in the upload directory, where they must
// stay unique across processes sharing that directory.
package pkguid
