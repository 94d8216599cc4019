// Package variant models the build variants of an Android app module and
// attaches signing profiles to them. It is the consumer of the credentials
// produced by package signing.
package variant
