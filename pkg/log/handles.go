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

// A LoggerHandle identifies one of the predefined subsystem loggers.
// Handles are fixed at startup; levels can be changed per handle at runtime
// via UpdateLoggingConfig.
type LoggerHandle struct {
	id   int
	name string
}

func (h *LoggerHandle) String() string {
	return h.name
}

var (
	Platform    = &LoggerHandle{id: 0, name: "platform"}
	Topology    = &LoggerHandle{id: 1, name: "topology"}
	Translator  = &LoggerHandle{id: 2, name: "translator"}
	Collector   = &LoggerHandle{id: 3, name: "collector"}
	Config      = &LoggerHandle{id: 4, name: "config"}
	Metrics     = &LoggerHandle{id: 5, name: "metrics"}
	Webservice  = &LoggerHandle{id: 6, name: "webservice"}
	Entrypoint  = &LoggerHandle{id: 7, name: "entrypoint"}
	Trace       = &LoggerHandle{id: 8, name: "trace"}
	Examples    = &LoggerHandle{id: 9, name: "examples"}
	Diagnostics = &LoggerHandle{id: 10, name: "diagnostics"}
	Test        = &LoggerHandle{id: 11, name: "test"}
)

// handles indexes every predefined handle by id.
var handles = []*LoggerHandle{
	Platform, Topology, Translator, Collector, Config, Metrics,
	Webservice, Entrypoint, Trace, Examples, Diagnostics, Test,
}
