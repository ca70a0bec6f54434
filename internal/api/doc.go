// Package api provides access to the plv REST API: login, profiles, message
// history, and chat invitations. The realtime path lives in package gateway;
// this client covers everything the screens fetch over plain HTTP.
package api
