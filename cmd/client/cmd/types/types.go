// Package types holds the context keys shared by the CLI command packages.
package types

type contextKey string

// ClientAppKey carries the initialized *client.App through the command
// context.
const ClientAppKey contextKey = "app"
