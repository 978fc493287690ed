// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// A single factory, New, creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, static attributes
// applied to every record, and ContextExtractor callbacks that pull
// request-scoped values (the acting user, the project under evaluation) into
// each record at Handle time.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the
// configured Format, applies static attributes, then wraps the handler in
// ContextHandler, which runs the registered ContextExtractor callbacks
// before delegating. Attribute constructors in attr.go (Error, UserID,
// ProjectID, Permission, ...) keep attribute naming consistent across
// packages.
//
// # Usage
//
//	import "github.com/flagkit/flagkit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithEnvironment(os.Getenv("APP_ENV"), "flagkit"),
//	        logger.WithContextExtractors(permissions.LoggerExtractor()),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "grant updated",
//	        logger.ProjectID(projectID),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error is
// non-nil, so they can be passed unconditionally:
//
//	log.Info("sync finished", logger.Error(err))
package logger
