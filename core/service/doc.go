// Package service defines the contract between a dialog session and the
// transport that carries it, along with the data types the two exchange:
// activities, recognition results and keyword model references.
package service
