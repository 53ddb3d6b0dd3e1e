// Copyright 2025 The ChapterDB Authors
// This file is part of ChapterDB.
//
// ChapterDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChapterDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ChapterDB. If not, see <http://www.gnu.org/licenses/>.

// Package logging builds the structured logger every engine operation is
// given, rather than reaching for a process-global (SPEC_FULL.md §2's
// ambient logging concern). A *zap.Logger is passed down explicitly to
// engine.New, the same collaborator-injection habit layout.Layout and
// manifest.Generate already follow for the filesystem.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log output is written.
type Config struct {
	// Level is the minimum level emitted: "debug", "info", "warn", "error".
	// Empty defaults to "info".
	Level string
	// FilePath, if set, rotates log output through lumberjack instead of
	// (or in addition to) stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// AlsoStderr mirrors output to stderr even when FilePath is set.
	AlsoStderr bool
}

// New builds a *zap.Logger from cfg. The encoder is always JSON: every
// engine log line is meant to be grep'd or shipped, not read in a terminal.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, err
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	var writers []zapcore.WriteSyncer
	if cfg.FilePath != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefaultInt(cfg.MaxSizeMB, 100),
			MaxBackups: orDefaultInt(cfg.MaxBackups, 5),
			MaxAge:     orDefaultInt(cfg.MaxAgeDays, 28),
			Compress:   true,
		}))
		if cfg.AlsoStderr {
			writers = append(writers, zapcore.AddSync(os.Stderr))
		}
	} else {
		writers = append(writers, zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(writers...), level)
	return zap.New(core), nil
}

// Discard returns a logger that drops everything, for tests and library
// callers who haven't wired one up yet.
func Discard() *zap.Logger {
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(io.Discard), zapcore.FatalLevel+1)
	return zap.New(core)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultInt(n, def int) int {
	if n == 0 {
		return def
	}
	return n
}
