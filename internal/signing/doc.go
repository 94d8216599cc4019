// Package signing loads release signing credentials from an Android
// project's key.properties file. Loading fails fast when the file is absent
// and tolerates absent individual keys; Validate offers the stricter check.
package signing
