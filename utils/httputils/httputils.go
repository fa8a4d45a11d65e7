// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides round trippers used by the provider HTTP clients.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"
)

// LoggingRoundTripper adds a very primitive logging to a http transaction.
// Query parameters named in Redact are masked in the dump.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
	Redact    []string
}

// reduce the content of the lines.
func abbreviate(lines []string, prefix rune) []string {
	const maxLines, maxChars = 256, 512

	for i, line := range lines {
		if i >= maxLines {
			break
		}

		lines[i] = fmt.Sprintf("%c %s", prefix, line)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines = append(lines, "…")
	}

	for i, line := range lines {
		if len(line) > maxChars {
			lines[i] = line[0:maxChars] + "…"
		}
	}

	return lines
}

func (t *LoggingRoundTripper) redact(s string) string {
	for _, param := range t.Redact {
		for _, sep := range []string{"?", "&"} {
			marker := sep + param + "="

			start := strings.Index(s, marker)
			if start == -1 {
				continue
			}

			start += len(marker)

			end := strings.IndexAny(s[start:], "& \n")
			if end == -1 {
				end = len(s) - start
			}

			s = s[:start] + "REDACTED" + s[start+end:]
		}
	}

	return s
}

func (t *LoggingRoundTripper) dumpRequest(req *http.Request) error {
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return fmt.Errorf("tracing HTTP request: %w", err)
	}

	lines := abbreviate(strings.Split(t.redact(string(dump)), "\n"), '>')
	lines = append(lines, "")
	_, err = fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

func (t *LoggingRoundTripper) dumpResponse(resp *http.Response, duration time.Duration) error {
	dump, err := httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return fmt.Errorf("tracing HTTP request: %w", err)
	}

	lines := abbreviate(strings.Split(string(dump), "\n"), '<')

	_, err = fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n", duration)
	if err != nil {
		return fmt.Errorf("tracing HTTP request: %w", err)
	}

	lines = append(lines, "")
	_, err = fmt.Fprint(t.Writer, strings.Join(lines, "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	if err := t.dumpRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := t.dumpResponse(resp, time.Since(start)); err != nil {
		return nil, err
	}

	return resp, nil
}

// AppendRequestHeadersRoundTripper adds headers to the request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// NewClient builds an http.Client that sets the User-Agent on every request
// and, when trace is not nil, dumps requests and responses to it.
func NewClient(timeout time.Duration, userAgent string, trace io.Writer, redact ...string) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport

	if trace != nil {
		transport = &LoggingRoundTripper{
			Transport: transport,
			Writer:    trace,
			DumpBody:  true,
			Redact:    redact,
		}
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &AppendRequestHeadersRoundTripper{
			Transport: transport,
			Headers:   map[string]string{"User-Agent": userAgent},
		},
	}
}
