package fares

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMalformedRecord marks a raw fare record that could not be parsed.
	ErrMalformedRecord = errors.New("malformed fare record")
	// ErrFetch marks a fare source failure for a whole trip.
	ErrFetch = errors.New("fare fetch failed")
	// ErrNotify marks an alert that one or more channels failed to deliver.
	ErrNotify = errors.New("alert delivery failed")
)

// MalformedRecordError describes why a single record was rejected.
type MalformedRecordError struct {
	Fields int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%v (%d fields): %s", ErrMalformedRecord, e.Fields, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// FetchError wraps a fare source failure with the trip it affected.
type FetchError struct {
	Trip string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrFetch, e.Trip, e.Err)
}

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

func (e *FetchError) Unwrap() error { return e.Err }

// NotifyError collects per-channel delivery failures.
type NotifyError struct {
	Failures map[string]error
}

func (e *NotifyError) Error() string {
	channels := make([]string, 0, len(e.Failures))
	for channel := range e.Failures {
		channels = append(channels, channel)
	}
	sort.Strings(channels)

	parts := make([]string, 0, len(channels))
	for _, channel := range channels {
		parts = append(parts, channel+": "+e.Failures[channel].Error())
	}
	return fmt.Sprintf("%v: %s", ErrNotify, strings.Join(parts, "; "))
}

func (e *NotifyError) Is(target error) bool { return target == ErrNotify }
