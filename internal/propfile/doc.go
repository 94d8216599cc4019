// Package propfile reads line-oriented key=value properties files such as
// key.properties and local.properties. Values are returned verbatim: no
// ${...} expansion is performed.
package propfile
