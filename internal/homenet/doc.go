// Package homenet is a client for the data-object API of the home
// automation server.
//
// The server models the house as named data objects (lamps, sensors,
// switches) each holding a string value. This package only needs to push
// new values and check that the server is reachable.
package homenet
