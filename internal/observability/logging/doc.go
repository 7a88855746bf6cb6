// Package logging provides structured logging helpers built on log/slog.
//
// The API and the cache warmer share one JSON logger configured from the
// environment. Request-scoped loggers carry the request ID and travel through
// the context so handlers, services and the retry wrapper log with the same
// correlation fields.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logging.FromContext(r.Context()).Info("serving listing")
//	}
package logging
