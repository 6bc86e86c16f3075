package slog_test

import "log/slog"

var debug = &slog.HandlerOptions{Level: slog.LevelDebug}
