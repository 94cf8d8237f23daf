// Package edge is the client-facing HTTP gateway.
//
// It accepts a JSON object on POST /dispatch, relays it through a
// [Forwarder] and answers with the coordinator's JSON untouched. Any relay
// failure becomes a single 502 whose detail starts with
// "Coordinator dispatch failed: ". Browser access is limited to the
// configured origin allow-list.
package edge
