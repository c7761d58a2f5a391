// Package scheduler implements the gateway's deferred-action table.
//
// Handlers that need a side effect to happen later — reboot, drop the Wi-Fi
// connection, push a state update, stop BLE — cannot block to perform it
// themselves. Instead they call Trigger on the process-wide Scheduler,
// which records a fire time in a fixed slot keyed by ActionType. Once per
// main-loop tick the supervisor calls Fire and acts on whatever comes due,
// switching on ActionType rather than storing executor closures in the
// table itself.
//
// Retriggering an action before it fires is idempotent: the earliest
// requested fire time always wins, so a second, later Trigger call for the
// same type cannot push the action further out.
package scheduler
