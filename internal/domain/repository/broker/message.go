package broker

// Message is one entry read back from the event stream.
type Message interface {
	Body() string
	Ack() error
	Nack() error
}
