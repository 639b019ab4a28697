// FILE: src/logging/doc.go

// Package logging fans log events out to console, file, named pipe and OS
// event log sinks. Console and event log writes happen on the caller's
// goroutine; file and pipe lines are queued and written by one background
// loop per sink kind.
//
//	p := logging.Register(func(s *logging.Settings) {
//		s.Sinks = logging.NewSinkSet(logging.Console, logging.File)
//		s.FilePath = "/var/log/app.log"
//	})
//	defer p.Shutdown(context.Background())
//
//	p.Logger("Net").Warn("link down")
package logging
