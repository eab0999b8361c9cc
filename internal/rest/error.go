package rest

import "fmt"

// CallError is a domain rejection: the server answered with a non-200
// status and an error envelope. It is recoverable by re-submission with
// corrected input.
type CallError struct {
	Status   int
	Envelope Envelope
}

func (e *CallError) Error() string {
	return fmt.Sprintf("rest: call rejected with status %d (%s)", e.Status, e.Envelope.MessageKey())
}

// MessageKey exposes the mapped symbolic key of the underlying envelope.
func (e *CallError) MessageKey() string {
	return e.Envelope.MessageKey()
}

// NetworkError means no usable response was obtained: connection failure,
// timeout, cancelled context, or an undecodable success body. It is kept
// apart from CallError because the recovery action differs (retry versus
// correct input).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("rest: transport failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
