// Package logging provides structured logging for the bootstrap importer.
//
// The package wraps Go's standard log/slog package with level and format
// parsing taken from configuration, plus context helpers that stamp every
// message of an import run with its run ID and trigger.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "environment imported", "file", path)
//
// Components that accept a *slog.Logger receive logger.Slog().
package logging
