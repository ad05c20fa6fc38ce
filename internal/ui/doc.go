// Package ui is the Bubble Tea front end: a dashboard of projects and a
// workspace mode where the pane grid lives.
//
// Core abstractions:
//   - View: A screen or major UI region with its own model, update, view (Elm-style)
//   - FocusManager: Tracks and rotates focus across panels
//   - Overlay: Modal or popup views with dismiss key
//   - KeybindRegistry/KeyHandler: leader-key (SPC) command dispatch
package ui
