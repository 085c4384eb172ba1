package logging

import (
	"context"
	"encoding/json"
	"io"
	"sync"
)

// StderrWriter drains the logger's channel onto w as one JSON object
// per line. Logs go to stderr because stdout belongs to the workload
// once the process image is replaced. The Sync case exists so a caller
// can guarantee every queued record has hit the stream before an exec
// removes any chance of the writer running again.
func StderrWriter(ctx context.Context, wg *sync.WaitGroup, w io.Writer, logger *InternalLogger) {
	wg.Add(1)
	defer wg.Done()

	writer := json.NewEncoder(w)

	drain := func() {
		for {
			select {
			case r := <-logger.Logs:
				writer.Encode(r)
				logger.Pool.Put(r)
			default:
				return
			}
		}
	}

	for {
		select {
		case r := <-logger.Logs:
			writer.Encode(r)
			logger.Pool.Put(r)
		case ack := <-logger.Sync:
			drain()
			close(ack)
		case <-ctx.Done():
			drain()
			return
		}
	}
}
