// Package gateway implements the realtime chat gateway client.
//
// The Manager:
//   - Owns the single WebSocket to the chat gateway
//   - Retrieves the auth token from the secure store with bounded retry
//   - Guards every room/message/invitation operation on connection state
//   - Reconnects with a bounded attempt count and fixed delay
//   - Fans inbound server events out through the event registry
package gateway
