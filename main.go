package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"sync"

	"code.crute.us/mcrute/dropvisor/bootstrap"
	"code.crute.us/mcrute/dropvisor/bootstrap/logging"
)

func main() {
	config := flag.String("config", "/etc/dropvisor.json", "config file location")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	logger := &logging.InternalLogger{
		Logs:      make(chan *logging.LogRecord, 100),
		Sync:      make(chan chan struct{}),
		Pool:      logging.NewBufferPool(),
		Cancel:    cancel,
		WaitGroup: wg,
	}
	go logging.StderrWriter(ctx, wg, os.Stderr, logger)

	cfg, err := bootstrap.ReadAppConfig(*config)
	if err != nil {
		logger.Fatalf("startup", "main: error loading config: %s", err)
	}

	logger.Logf("startup", "port %d is reserved for the workload's monitoring endpoint and is not bound here", cfg.MonitoringPort)

	b := &bootstrap.Bootstrap{
		Logger: logger,
		Config: cfg,
	}

	// Run only returns on failure; on success the process image has
	// already been replaced by the workload.
	if err := b.Run(flag.Args(), os.Environ()); err != nil {
		var se *bootstrap.StageError
		if errors.As(err, &se) {
			logger.Fatalf(se.Phase, "main: startup failed: %s", se.Err)
		}
		logger.Fatalf("startup", "main: startup failed: %s", err)
	}
}
