// Package logger builds *slog.Logger values with functional options and
// injects request-scoped attributes taken from context.Context.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor
// on each record. WithEnvironment applies per-environment defaults.
//
// The attribute helpers in attr.go (Error, RequestID, Component, Event,
// Outcome, ...) keep key names consistent across the service.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "formrelay"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "submission accepted", logger.Source("contact"))
package logger
