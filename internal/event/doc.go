// Package event implements the client-side event registry.
//
// The registry decouples UI subscribers from the gateway transport: the
// gateway emits inbound server events by name, and any number of listeners
// receive them. Listener identity is tracked with registration IDs because
// function values are not comparable in Go.
package event
