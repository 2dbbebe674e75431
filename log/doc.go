// Package log builds [log/slog] handlers from level and format names.
//
// Three formats are supported. [FormatText] writes colored, human-readable
// lines through [charm.land/log/v2]; [FormatJSON] and [FormatLogfmt] use the
// standard slog handlers and suit piping into other tools.
//
// Typical usage registers flags on the root command and installs the
// handler before any work starts:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	logger, err := cfg.NewLogger(os.Stderr)
//	if err != nil {
//	    return err
//	}
//
//	slog.SetDefault(logger)
package log
