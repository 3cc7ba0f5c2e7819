// Package directline implements the service.Client contract over a
// websocket connection to a Direct Line-style dialog endpoint.
//
// The message shapes in this package are client-side only; the remote
// service's wire protocol is not specified here. Inbound JSON frames are
// dispatched to the callbacks configured on Connect, in arrival order.
package directline
