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

package entrypoint

import (
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
	"github.com/oar-team/oar-scheduler-redox/pkg/webservice"
)

type ServiceContext struct {
	Platform         *platform.BenchPlatform
	History          *platform.RunHistory
	WebApp           *webservice.WebService
	MetricsCollector *metrics.InternalMetricsCollector
	Tracer           trace.BenchTracer
}

func (s *ServiceContext) StopAll() {
	log.Log(log.Entrypoint).Info("ServiceContext stop all services")
	if s.WebApp != nil {
		if err := s.WebApp.StopWebApp(); err != nil {
			log.Log(log.Entrypoint).Error("failed to stop web-app",
				zap.Error(err))
		}
	}
	if s.MetricsCollector != nil {
		s.MetricsCollector.Stop()
	}
	if s.Tracer != nil {
		s.Tracer.Close()
	}
}
