// Package logger wraps zerolog for diarkit.
//
// Output is JSON or console text on stdout/stderr, or a rotating file via
// lumberjack when Output is a path. Each engine call tags its lines with a
// component and a run ID so a report can be traced back through the logs.
//
// A typical configuration section:
//
//	logging:
//	  level: debug
//	  format: console
//	  output: /var/log/diarkit/diarkit.log
//	  max_size: 50
//
// Components fetch their logger by name:
//
//	log := logger.Get("reconcile")
//	log.Info("report ready", logger.Fields("der", 0.12))
package logger
