// Package dom is a minimal in-process document model standing in for a host page.
//
// It provides what a test subject needs from a browser:
//
// 1. An element tree. Elements that accept children are attachment points (Container).
//
// 2. Frames, which are embedded browsing contexts. A frame loads the document named by its
// source locator once it has a parent, and exposes the loaded document's global scope through
// its Window.
//
// 3. A single event loop per Document. Every load and unload signal is dispatched on it, so
// signal handlers never run concurrently with each other. Document fetches happen on their
// own goroutines and post their completion back to the loop.
package dom
