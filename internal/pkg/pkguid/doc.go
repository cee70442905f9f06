// Package pkguid provides helpers for generating unique identifiers.
//
// Callers depend on the StringID and NumberID interfaces rather than a
// concrete strategy:
//   - UUIDv7 strings tag requests with correlation IDs.
//   - Snowflake IDs (numeric, or base58 through Snowflake.Strings) name
//     uploaded datasets so they sort by upload time.
package pkguid
