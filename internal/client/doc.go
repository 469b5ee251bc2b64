// Package client assembles the offline-first sync engine into a single
// embeddable application object.
//
// It wires the local cache, the remote gateway, the clock and edge-case
// monitors and the service layer into one process lifecycle, and exposes
// the surface a host UI talks to: record services, sync status and
// control, and the event subscriptions.
package client
