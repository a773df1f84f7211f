package sinklog

import (
	"time"

	"github.com/google/uuid"
)

// Record is a single log event. It is passed to sinks by value, so a sink can
// format or copy it but never change what other sinks receive.
type Record struct {
	Content    string
	Level      Level
	Namespace  Namespace
	Timestamp  time.Time
	TrackingID string // empty when absent
	HostName   string // empty when absent
}

// RecordOption sets an optional record field at the call site
type RecordOption func(*Record)

// WithTrackingID attaches a request or transaction id
func WithTrackingID(id string) RecordOption {
	return func(r *Record) {
		r.TrackingID = id
	}
}

// WithHostName attaches the originating host
func WithHostName(host string) RecordOption {
	return func(r *Record) {
		r.HostName = host
	}
}

// NewTrackingID returns a random id suitable for WithTrackingID
func NewTrackingID() string {
	return uuid.NewString()
}
