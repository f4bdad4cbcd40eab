// Package fake provides a recording implementation of every hardware port
// for tests. Its clock never blocks, so sequences spanning many time-units
// run instantly while their delays stay observable.
package fake
