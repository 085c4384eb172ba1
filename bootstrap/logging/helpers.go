package logging

import (
	"fmt"
	"os"
	"sync"
)

type InternalLogger struct {
	Logs      chan *LogRecord
	Sync      chan chan struct{}
	Pool      *BufferPool
	Cancel    func()
	WaitGroup *sync.WaitGroup
}

func (l *InternalLogger) Log(phase, message string) {
	l.Logs <- l.Pool.Get().FromPhase(phase).FromNow().AtLevel(Info).WithMessage(message)
}

func (l *InternalLogger) Logf(phase, message string, args ...any) {
	l.Log(phase, fmt.Sprintf(message, args...))
}

func (l *InternalLogger) Fatalf(phase, message string, args ...any) {
	l.Fatal(phase, fmt.Sprintf(message, args...))
}

func (l *InternalLogger) Fatal(phase, message string) {
	l.Logs <- l.Pool.Get().FromPhase(phase).FromNow().AtLevel(Error).WithMessage(message)
	l.Cancel()
	l.WaitGroup.Wait()
	os.Exit(1)
}

// Flush blocks until every record queued before the call has been
// written. Must be called before replacing the process image.
func (l *InternalLogger) Flush() {
	ack := make(chan struct{})
	l.Sync <- ack
	<-ack
}
