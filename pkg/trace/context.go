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
	"github.com/opentracing/opentracing-go/ext"
)

// TraceContext manages the spans of one scheduling pass.
// it only covers the pass workflow so we keep the interface simple
type TraceContext interface {
	// ActiveSpan returns the current active (latest unfinished) span in this context.
	// Error returns if there doesn't exist an unfinished span.
	ActiveSpan() (opentracing.Span, error)

	// StartSpan creates and starts a new span based on the context state with the operationName parameter.
	// The new span is the child of the current active span if it exists.
	// Or the new span will become the root span of this trace.
	StartSpan(operationName string) (opentracing.Span, error)

	// FinishActiveSpan finishes the current active span and sets its parent as active if it exists.
	// Error returns if there doesn't exist an unfinished span.
	FinishActiveSpan() error
}

var _ TraceContext = &TraceContextImpl{}

// TraceContextImpl reports the spans to the tracer once they are finished.
// Root span's "sampling.priority" tag will be set to 1 to force reporting all spans if OnDemandFlag is true.
type TraceContextImpl struct {
	Tracer       opentracing.Tracer
	SpanStack    []opentracing.Span
	OnDemandFlag bool
}

func (tc *TraceContextImpl) ActiveSpan() (opentracing.Span, error) {
	if len(tc.SpanStack) == 0 {
		return nil, fmt.Errorf("not found")
	}
	return tc.SpanStack[len(tc.SpanStack)-1], nil
}

func (tc *TraceContextImpl) StartSpan(operationName string) (opentracing.Span, error) {
	var newSpan opentracing.Span
	if span, err := tc.ActiveSpan(); err != nil {
		newSpan = tc.Tracer.StartSpan(operationName)
		if tc.OnDemandFlag {
			ext.SamplingPriority.Set(newSpan, 1)
		}
	} else {
		newSpan = tc.Tracer.StartSpan(operationName, opentracing.ChildOf(span.Context()))
	}
	tc.SpanStack = append(tc.SpanStack, newSpan)
	return newSpan, nil
}

func (tc *TraceContextImpl) FinishActiveSpan() error {
	span, err := tc.ActiveSpan()
	if err != nil {
		return err
	}
	span.Finish()
	tc.SpanStack = tc.SpanStack[:len(tc.SpanStack)-1]
	return nil
}
