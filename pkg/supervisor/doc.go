// Package supervisor wires every long-running task into one process and
// owns the scheduler dispatch loop, the Go rendering of main.cpp's task
// creation sequence plus the scheduled-action half of WifiStatusTask and
// OTATask that wifisup and ota no longer own directly.
package supervisor
