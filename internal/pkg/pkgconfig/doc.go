// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Values are read once at startup through the Config interface and copied into
// the typed settings structs of each module, so nothing below the app package
// keeps a handle on the config source.
//
// Every key can be overridden from the environment: "storage.upload_dir" is
// read from GODASH_STORAGE_UPLOAD_DIR when that variable is set.
package pkgconfig
