// Package domain contains the core entities of the vocabulary trainer:
// review cards and review sessions, together with their validation rules
// and lifecycle enums. Entities here carry no persistence or transport
// concerns; services in internal/service orchestrate them.
package domain
