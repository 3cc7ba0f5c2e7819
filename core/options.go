package dialog

import "github.com/tkovacevic/dialogline/core/service"

type ConnectorOption func(*Connector)

// WithServiceClient sets the transport client the connector's sessions
// drive. Sessions created after Close reuse the same client.
func WithServiceClient(client service.Client) ConnectorOption {
	return func(c *Connector) {
		c.client = client
	}
}

// WithParentProperties chains the connector's property bag to a
// site-provided parent; reads fall back to it, writes stay local.
func WithParentProperties(parent PropertyProvider) ConnectorOption {
	return func(c *Connector) {
		c.props = NewProperties(parent)
	}
}
