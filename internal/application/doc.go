// Package application wires the release configuration pipeline: it loads
// key.properties before anything else, resolves Flutter versions, assembles
// the app module and attaches the release signing profile. It also builds the
// HTTP server used by the serve command, keeping the main package focused on
// CLI parsing and orchestration.
package application
