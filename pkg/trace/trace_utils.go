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

package trace

import (
	"fmt"

	"github.com/opentracing/opentracing-go"
)

const (
	LevelKey = "level"
	PhaseKey = "phase"
	NameKey  = "name"
	StateKey = "state"
	InfoKey  = "info"

	RootLevel     = "root"
	PassLevel     = "pass"
	JobLevel      = "job"
	MoldableLevel = "moldable"

	BuildTopologyPhase   = "buildTopology"
	TranslateJobsPhase   = "translateJobs"
	SchedulePhase        = "schedule"
	ResolveRequestPhase  = "resolveRequest"
	SaveAssignmentsPhase = "saveAssignments"
	CollectReportPhase   = "collectReport"

	AssignedState = "assigned"
	SkipState     = "skip"

	NoResourcesInfo     = "no resources satisfy the request"
	HorizonExceededInfo = "walltime does not fit before the horizon"
)

// StartSpanWrapper simplifies the span starting process by integrating general tags' setting.
// The level tag is required, nonempty and logs the span's position in the pass. (root, pass, job, ...)
// The phase tag is optional and logs the span's calling phase. (translateJobs, schedule, collectReport, ...)
// The name tag is optional and logs the span's related object's identity. (job or moldable id)
// These tags can be decided when starting the span because they don't depend on the calling result.
// Logs or special tags can be set with the returned span object.
// It shares the restriction on trace.TraceContext that spans start and finish in pairs, like this:
//  span, _ := StartSpanWrapper(ctx, "root", "", "")
//  defer FinishActiveSpanWrapper(ctx, "", "")
//  ...
//  span.SetTag("foo", "bar") // if we have irregular tags to set
//  ...
func StartSpanWrapper(ctx TraceContext, level, phase, name string) (opentracing.Span, error) {
	if ctx == nil {
		return opentracing.NoopTracer{}.StartSpan(""), nil
	}
	if level == "" {
		return opentracing.NoopTracer{}.StartSpan(""),
			fmt.Errorf("level field cannot be empty")
	}

	span, err := ctx.StartSpan(fmt.Sprintf("[%v]%v", level, phase))
	if err == nil {
		span.SetTag(LevelKey, level)
		if phase != "" {
			span.SetTag(PhaseKey, phase)
		}
		if name != "" {
			span.SetTag(NameKey, name)
		}
	}
	return span, err
}

// FinishActiveSpanWrapper simplifies the span finishing process by integrating result tags' setting.
// The state tag is optional and logs the span's calling result. (assigned, skip, ...)
// The info tag is optional and logs the span's result message. (errors or hints for the state)
// These general tags depend on the calling result so they can be integrated with the finishing process.
func FinishActiveSpanWrapper(ctx TraceContext, state, info string) error {
	if ctx == nil {
		return nil
	}

	span, err := ctx.ActiveSpan()
	if err == nil {
		if state != "" {
			span.SetTag(StateKey, state)
		}
		if info != "" {
			span.SetTag(InfoKey, info)
		}
		return ctx.FinishActiveSpan()
	}
	return err
}
