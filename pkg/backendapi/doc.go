// Package backendapi is a thin GraphQL-over-HTTP client: it posts a
// single "{\"query\":...}" body and inspects the JSON response for a
// field of interest, rather than pulling in a full GraphQL client
// library.
package backendapi
