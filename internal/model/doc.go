// Package model defines the chat domain types shared across the client:
// profiles, messages, chat invitations, typing events, and presence records.
//
// All JSON field names match the plv backend's camelCase wire format.
package model
