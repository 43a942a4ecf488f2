// Package task manages background job queuing, processing, and lifecycle.
// It provides asynchronous execution for work that must not block HTTP
// request handling, such as sending the welcome email after registration.
// Tasks are persisted before they are queued and recovered after restarts.
package task
