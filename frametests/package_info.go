// Package frametests contains the frame harness contract tests and their supporting API.
//
// Every test gets its own document and its own mock endpoints on the test harness listener.
// Fixture documents are served from those endpoints, so the subjects under test load them over
// real HTTP. Infrastructure that is not specific to frames, such as the test context and the
// listener itself, is in the lower-level framework package.
package frametests
