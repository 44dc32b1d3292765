// Package api provides the HTTP surface consumed by UI collaborators:
// card management, review sessions and statistics. It is a thin layer over
// internal/service; no scheduling or aggregation logic lives here.
package api
