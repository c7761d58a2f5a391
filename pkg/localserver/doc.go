// Package localserver exposes a routes.Table over plain HTTP. A
// gorilla/mux router is built once from the table, with one handler
// registered per route.
package localserver
