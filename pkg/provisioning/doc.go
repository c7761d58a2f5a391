// Package provisioning implements EGWTTP, the line-oriented request/
// response protocol carried over a radio.Transport connection standing
// in for a short-range wireless provisioning link.
package provisioning
