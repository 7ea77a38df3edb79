// Package handlers contains the built-in task handlers: music playback,
// system control, weather lookup, file operations, reminders and a help
// listing. Side effects go through small injected interfaces so handlers
// stay testable.
package handlers
