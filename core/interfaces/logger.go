package interfaces

// Logger defines the interface for logging throughout the application.
// The production implementation is backed by logrus; tests pass a no-op or
// recording logger.
//
// Example usage:
//
//	logger.Info("Fetched ads", map[string]interface{}{
//		"keyword": "running shoes",
//		"ads":     4,
//	})
//
//	logger.Error("Failed to append history", map[string]interface{}{
//		"path":  "data/ad_history.csv",
//		"error": err.Error(),
//	})
type Logger interface {
	// Debug logs a debug level message with optional structured fields.
	Debug(msg string, fields map[string]interface{})

	// Info logs an info level message with optional structured fields.
	Info(msg string, fields map[string]interface{})

	// Warn logs a warning level message with optional structured fields.
	// Warning messages indicate potential issues that don't prevent operation.
	Warn(msg string, fields map[string]interface{})

	// Error logs an error level message with optional structured fields.
	Error(msg string, fields map[string]interface{})
}
