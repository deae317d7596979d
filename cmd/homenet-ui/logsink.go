package main

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// maxPendingLines bounds the lines kept while no program is attached.
const maxPendingLines = 200

// logSink is the io.Writer behind the logger. Each complete line becomes a
// logLineMsg for the program; lines written before attach, or after
// detach, are buffered.
type logSink struct {
	mu      sync.Mutex
	partial []byte
	pending []string
	send    func(tea.Msg)
}

func newLogSink() *logSink {
	return &logSink{}
}

// Write implements io.Writer.
func (s *logSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.partial = append(s.partial, p...)
	for {
		i := bytes.IndexByte(s.partial, '\n')
		if i < 0 {
			break
		}
		line := string(s.partial[:i])
		s.partial = s.partial[i+1:]
		s.emitLocked(line)
	}
	return len(p), nil
}

func (s *logSink) emitLocked(line string) {
	if s.send != nil {
		s.send(logLineMsg(line))
		return
	}
	s.pending = append(s.pending, line)
	if len(s.pending) > maxPendingLines {
		s.pending = s.pending[len(s.pending)-maxPendingLines:]
	}
}

// attach starts delivering lines through send, flushing the buffer first.
func (s *logSink) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.pending {
		send(logLineMsg(line))
	}
	s.pending = nil
	s.send = send
}

// detach stops delivery; later lines are buffered and dropped with the sink.
func (s *logSink) detach() {
	s.mu.Lock()
	s.send = nil
	s.mu.Unlock()
}
