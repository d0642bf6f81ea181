/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package log

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	levelKeyPrefix = "log."
	levelKeySuffix = ".level"
	rootLevelKey   = "log.level"
)

var once sync.Once
var mu sync.Mutex
var logger *zap.Logger
var config *zap.Config
var aLevel *zap.AtomicLevel
var loggers []*zap.Logger

// Logger returns the root logger, creating it on first use.
func Logger() *zap.Logger {
	once.Do(func() {
		if logger = zap.L(); isNopLogger(logger) {
			// No global logger was preset, so the adapter runs standalone
			// rather than embedded in a host process: create our own.
			config = createConfig()
			var err error
			logger, err = config.Build()
			// this should really not happen so just write to stdout and set a Nop logger
			if err != nil {
				fmt.Printf("Logging disabled, logger init failed with error: %v\n", err)
				logger = zap.NewNop()
			}
		}
		loggers = createLoggers(logger, nil)
	})
	return logger
}

// Log returns the named logger for the given handle.
func Log(handle *LoggerHandle) *zap.Logger {
	Logger()
	mu.Lock()
	defer mu.Unlock()
	return loggers[handle.id]
}

// UpdateLoggingConfig reapplies per-logger levels from configuration entries of
// the form log.<name>.level; the special key log.level sets the root level.
// Malformed entries are logged and ignored.
func UpdateLoggingConfig(conf map[string]string) {
	base := Logger()
	mu.Lock()
	defer mu.Unlock()
	levels := make(map[string]zapcore.Level)
	for k, v := range conf {
		if !strings.HasPrefix(k, levelKeyPrefix) || !strings.HasSuffix(k, levelKeySuffix) {
			continue
		}
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			base.Warn("ignoring malformed log level entry",
				zap.String("key", k),
				zap.String("value", v))
			continue
		}
		if k == rootLevelKey {
			if config != nil {
				config.Level.SetLevel(level)
			}
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(k, levelKeyPrefix), levelKeySuffix)
		levels[name] = level
	}
	loggers = createLoggers(base, levels)
}

func IsDebugEnabled() bool {
	if logger == nil {
		// when under development mode
		return true
	}
	return logger.Core().Enabled(zapcore.DebugLevel)
}

// Returns true if the logger is a noop.
// Logger is a noop means the logger has not been initialized yet.
// This usually means a global logger is not set in the given context,
// see more at zap.ReplaceGlobals(). If a host process presets a global
// logger, the adapter simply reuses it.
func isNopLogger(logger *zap.Logger) bool {
	return reflect.DeepEqual(zap.NewNop(), logger)
}

// Visible by tests
func InitAndSetLevel(level zapcore.Level) {
	if config == nil {
		Logger()
	}
	config.Level.SetLevel(level)
}

func GetAtomicLevel() *zap.AtomicLevel {
	return aLevel
}

// createLoggers derives one named logger per handle from the base logger,
// wrapping the core with a level filter where an override is set.
func createLoggers(base *zap.Logger, levels map[string]zapcore.Level) []*zap.Logger {
	result := make([]*zap.Logger, len(handles))
	for _, handle := range handles {
		named := base.Named(handle.name)
		if level, ok := levels[handle.name]; ok {
			named = named.WithOptions(zap.WrapCore(func(inner zapcore.Core) zapcore.Core {
				return filteredCore{level: level, inner: inner}
			}))
		}
		result[handle.id] = named
	}
	return result
}

// Create a log config to keep full control over
// LogLevel set to DEBUG, Encodes for console, Writes to stderr,
// Enables development mode (DPanicLevel),
// Print stack traces for messages at WarnLevel and above
func createConfig() *zap.Config {
	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	aLevel = &atomicLevel

	return &zap.Config{
		Level:       atomicLevel,
		Development: true,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "message",
			LevelKey:      "level",
			TimeKey:       "time",
			NameKey:       "name",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			LineEnding:    zapcore.DefaultLineEnding,
			// note: https://godoc.org/go.uber.org/zap/zapcore#EncoderConfig
			// only EncodeName is optional all others must be set
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
