// Package events decouples services that want background work done from the
// task machinery that does it. A service emits a TaskRequestEvent naming the
// task type and carrying a JSON payload; registered handlers turn the event
// into a persisted task. Registration triggers the welcome email this way.
package events
