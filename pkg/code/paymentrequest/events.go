package paymentrequest

import (
	messagingpb "github.com/code-payments/code-protobuf-api/generated/go/messaging/v1"
)

// EventKind is the closed set of events a session emits
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventError
	EventStreamClosed
	EventRequestToGrabBill
	EventRequestToReceiveBill
	EventCodeScanned
	EventClientRejectedPayment
	EventIntentSubmitted
	EventWebhookCalled
	EventRequestToLogin
	EventClientRejectedLogin
	EventAirdropReceived
)

func (k EventKind) String() string {
	switch k {
	case EventError:
		return "error"
	case EventStreamClosed:
		return "streamClosed"
	case EventRequestToGrabBill:
		return "requestToGrabBill"
	case EventRequestToReceiveBill:
		return "requestToReceiveBill"
	case EventCodeScanned:
		return "codeScanned"
	case EventClientRejectedPayment:
		return "clientRejectedPayment"
	case EventIntentSubmitted:
		return "intentSubmitted"
	case EventWebhookCalled:
		return "webhookCalled"
	case EventRequestToLogin:
		return "requestToLogin"
	case EventClientRejectedLogin:
		return "clientRejectedLogin"
	case EventAirdropReceived:
		return "airdropReceived"
	}
	return "unknown"
}

// Event is a single notification delivered to an EventSink. Message is set
// for protocol message events, and Err for EventError.
type Event struct {
	Kind    EventKind
	Message *messagingpb.Message
	Err     error
}

// EventSink receives events for an open session
type EventSink interface {
	Emit(event *Event)
}

// EventSinkFunc adapts a function to an EventSink
type EventSinkFunc func(event *Event)

// Emit implements EventSink.Emit
func (f EventSinkFunc) Emit(event *Event) {
	f(event)
}

// GetEventKindForMessage maps a protocol message to the event emitted for it.
// False is returned for message kinds this version doesn't know about.
func GetEventKindForMessage(msg *messagingpb.Message) (EventKind, bool) {
	switch msg.GetKind().(type) {
	case *messagingpb.Message_RequestToGrabBill:
		return EventRequestToGrabBill, true
	case *messagingpb.Message_RequestToReceiveBill:
		return EventRequestToReceiveBill, true
	case *messagingpb.Message_CodeScanned:
		return EventCodeScanned, true
	case *messagingpb.Message_ClientRejectedPayment:
		return EventClientRejectedPayment, true
	case *messagingpb.Message_IntentSubmitted:
		return EventIntentSubmitted, true
	case *messagingpb.Message_WebhookCalled:
		return EventWebhookCalled, true
	case *messagingpb.Message_RequestToLogin:
		return EventRequestToLogin, true
	case *messagingpb.Message_ClientRejectedLogin:
		return EventClientRejectedLogin, true
	case *messagingpb.Message_AirdropReceived:
		return EventAirdropReceived, true
	}
	return EventUnknown, false
}
