// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

type termSpinner struct {
	w          io.Writer
	width      int
	quit, done chan struct{}
	started    time.Time
	n          int
	msg        string
}

// Start starts the spinner.
func (s *termSpinner) Start(format string, args ...any) {
	s.started = time.Now()
	// room for the duration and the spinner.
	s.msg = fitWidth(fmt.Sprintf(format, args...), s.width-12)
	fmt.Fprintf(s.w, "%s... ", s.msg)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.quit:
				return
			case <-time.After(1 * time.Second):
				const chars = `/-\|`
				fmt.Fprintf(s.w, "\b%c", chars[s.n])
				s.n++
				if s.n >= len(chars) {
					s.n = 0
				}
			}
		}
	}()
}

func (s *termSpinner) stop() {
	if s.quit == nil {
		return
	}
	close(s.quit)
	<-s.done
	s.quit = nil
}

// Stop stops the spinner.
func (s *termSpinner) Stop(err error) {
	s.stop()
	d := time.Since(s.started)
	if err != nil {
		fmt.Fprintf(s.w, "\r\033[K%6s %s failed %v\n", FormatDuration(d), s.msg, err)
		return
	}
	if d < DurationThreshold {
		// omit if duration is too short
		fmt.Fprintf(s.w, "\r\033[K")
		return
	}
	fmt.Fprintf(s.w, "\r\033[K%6s %s\n", FormatDuration(d), s.msg)
}

// Done finishes the spinner with message.
func (s *termSpinner) Done(format string, args ...any) {
	s.stop()
	msg := fmt.Sprintf(format, args...)
	d := time.Since(s.started)
	fmt.Fprintf(s.w, "\r\033[K%6s %s %s\n", FormatDuration(d), s.msg, msg)
}

// TermUI is a terminal-based UI.
type TermUI struct {
	w     io.Writer
	width int
}

func (t *TermUI) init() {
	t.width, _, _ = term.GetSize(int(os.Stderr.Fd()))
}

// PrintLines implements the ui.UI interface.
func (t *TermUI) PrintLines(msgs ...string) {
	writeLines(t.w, msgs)
}

// NewSpinner returns a terminal-based spinner.
func (t *TermUI) NewSpinner() Spinner {
	return &termSpinner{w: t.w, width: t.width}
}

// Infof reports an informational message.
func (t *TermUI) Infof(format string, args ...any) {
	writeLines(t.w, []string{fmt.Sprintf(format, args...)})
}

// Warningf reports a warning message in yellow.
func (t *TermUI) Warningf(format string, args ...any) {
	writeLines(t.w, []string{SGR(Yellow, fmt.Sprintf(format, args...))})
}

// Errorf reports an error message in red.
func (t *TermUI) Errorf(format string, args ...any) {
	writeLines(t.w, []string{SGR(Red, fmt.Sprintf(format, args...))})
}

// fitWidth truncates msg to fit in width columns.
// No truncation if width is not positive.
func fitWidth(msg string, width int) string {
	if width <= 0 || len(msg) <= width {
		return msg
	}
	if width <= 3 {
		return msg[:width]
	}
	return msg[:width-3] + "..."
}
