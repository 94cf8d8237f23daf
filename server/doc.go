// Package server holds the HTTP plumbing shared by the edge and coordinator
// services: a gin engine preloaded with request-ID, logging and panic
// recovery middleware, and a Run loop that serves until its context is
// cancelled and then shuts down gracefully.
package server
