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
	"io"

	"github.com/opentracing/opentracing-go"

	"github.com/oar-team/oar-scheduler-redox/pkg/locking"
)

// BenchTracer hands out one trace context per scheduling pass.
type BenchTracer interface {
	NewTraceContext() TraceContext
	Close()
}

var _ BenchTracer = &BenchTracerImpl{}

const (
	// Sampling leaves the reporting decision to the configured sampler.
	Sampling = "Sampling"
	// OnDemand forces reporting of every span of the pass.
	OnDemand = "OnDemand"
)

type BenchTracerParams struct {
	Mode string
}

var DefaultBenchTracerParams = &BenchTracerParams{
	Mode: Sampling,
}

type BenchTracerImpl struct {
	Tracer opentracing.Tracer
	Closer io.Closer
	locking.RWMutex
	*BenchTracerParams
}

func (bt *BenchTracerImpl) NewTraceContext() TraceContext {
	bt.RLock()
	defer bt.RUnlock()
	switch bt.Mode {
	case Sampling:
		return &TraceContextImpl{
			Tracer:       bt.Tracer,
			SpanStack:    []opentracing.Span{},
			OnDemandFlag: false,
		}
	case OnDemand:
		return &TraceContextImpl{
			Tracer:       bt.Tracer,
			SpanStack:    []opentracing.Span{},
			OnDemandFlag: true,
		}
	default:
		return nil
	}
}

func (bt *BenchTracerImpl) SetParams(params *BenchTracerParams) {
	if params == nil {
		return
	}
	bt.Lock()
	defer bt.Unlock()
	bt.BenchTracerParams = params
}

func (bt *BenchTracerImpl) Close() {
	if bt.Closer != nil {
		bt.Closer.Close()
	}
}

func NewBenchTracer(params *BenchTracerParams) (BenchTracer, error) {
	if params == nil {
		params = DefaultBenchTracerParams
	}

	tracer, closer, err := NewTracerFromEnv("oar-sched-bench")
	if err != nil {
		return nil, err
	}

	return &BenchTracerImpl{
		Tracer:            tracer,
		Closer:            closer,
		BenchTracerParams: params,
	}, nil
}
