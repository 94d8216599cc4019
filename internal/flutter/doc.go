// Package flutter resolves the SDK levels and application version that the
// Flutter Gradle plugin hands to an Android app module.
package flutter
