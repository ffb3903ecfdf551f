// Package language normalizes stream descriptor language tags to
// ISO-639-2, the form manifest and text-pipeline collaborators expect.
package language
