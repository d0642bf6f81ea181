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
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gotest.tools/v3/assert"
)

// reset the global vars and the global logger in zap
func resetGlobals() {
	once = sync.Once{}
	logger = nil
	config = nil
	aLevel = nil
	loggers = nil
	zap.ReplaceGlobals(zap.NewNop())
}

// This test sets the global zap logger. This must be undone to make sure no side
// effects on other tests are caused by running this test.
func TestIsNopLogger(t *testing.T) {
	defer resetGlobals()

	testLogger, err := zap.NewDevelopment()
	assert.NilError(t, err, "dev logger init failed")
	assert.Equal(t, false, isNopLogger(testLogger))

	testLogger = zap.NewNop()
	assert.Equal(t, true, isNopLogger(testLogger))

	testLogger = zap.L()
	assert.Equal(t, true, isNopLogger(testLogger))

	testLogger, err = zap.NewProduction()
	assert.NilError(t, err, "prod logger init failed")
	zap.ReplaceGlobals(testLogger)
	assert.Equal(t, false, isNopLogger(testLogger))
	assert.Equal(t, false, isNopLogger(zap.L()))
}

// Since we test the function IsDebugEnabled() we set the logger global var.
// It has not triggered the once.Do() so we just need to make sure we clean up
// the global var.
func TestIsDebugEnabled(t *testing.T) {
	defer resetGlobals()

	zapConfig := zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.DebugLevel),
		Encoding: "console",
	}
	var err error
	logger, err = zapConfig.Build()
	assert.NilError(t, err, "debug level logger create failed")
	assert.Equal(t, true, IsDebugEnabled())

	zapConfig = zap.Config{
		Level:    zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding: "console",
	}
	logger, err = zapConfig.Build()
	assert.NilError(t, err, "info level logger create failed")
	assert.Equal(t, false, IsDebugEnabled())
}

func TestCreateConfig(t *testing.T) {
	defer resetGlobals()

	// direct call
	zapConfig := createConfig()
	localLogger, err := zapConfig.Build()
	assert.NilError(t, err, "default config logger create failed")
	assert.Equal(t, true, localLogger.Core().Enabled(zap.DebugLevel))

	// indirect call to init logger
	assert.Assert(t, logger == nil, "global logger should not have been set %v", logger)
	localLogger = Logger()
	assert.Assert(t, localLogger != nil, "returned logger should have been not nil")
	// default log level is debug
	assert.Equal(t, true, IsDebugEnabled())
	// change log level to info
	InitAndSetLevel(zap.InfoLevel)
	assert.Equal(t, false, IsDebugEnabled())
}

func TestLogHandles(t *testing.T) {
	defer resetGlobals()

	for _, handle := range handles {
		named := Log(handle)
		assert.Assert(t, named != nil, "no logger for handle %s", handle)
	}
	assert.Equal(t, "platform", Platform.String())
}

func TestUpdateLoggingConfig(t *testing.T) {
	defer resetGlobals()

	named := Log(Test)
	assert.Equal(t, true, named.Core().Enabled(zapcore.DebugLevel))

	UpdateLoggingConfig(map[string]string{"log.test.level": "warn"})
	named = Log(Test)
	assert.Equal(t, false, named.Core().Enabled(zapcore.DebugLevel))
	assert.Equal(t, true, named.Core().Enabled(zapcore.WarnLevel))

	// other handles keep the root level
	assert.Equal(t, true, Log(Platform).Core().Enabled(zapcore.DebugLevel))

	// malformed entries are ignored
	UpdateLoggingConfig(map[string]string{"log.test.level": "noSuchLevel"})
	assert.Equal(t, true, Log(Test).Core().Enabled(zapcore.DebugLevel))
}
