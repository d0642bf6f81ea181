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

	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics/history"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform"
	"github.com/oar-team/oar-scheduler-redox/pkg/trace"
	"github.com/oar-team/oar-scheduler-redox/pkg/webservice"
)

const defaultListenAddr = ":9080"
const defaultHistorySize = 10

// one trend sample per minute keeps a day of history
const defaultMetricsHistorySize = 1440

// options used to control how services are started
type startupOptions struct {
	startWebAppFlag    bool
	listenAddr         string
	historySize        int
	metricsHistorySize int
	traceContext       trace.TraceContext
}

// StartAllServices builds a platform facade from the snapshot and wires it
// together with the benchmark metrics, the run history and the web
// application on the default listen address.
func StartAllServices(conf *configs.PlatformConfig) (*ServiceContext, error) {
	log.Log(log.Entrypoint).Info("ServiceContext start all services")
	return startAllServicesWithParameters(conf,
		startupOptions{
			startWebAppFlag:    true,
			listenAddr:         defaultListenAddr,
			historySize:        defaultHistorySize,
			metricsHistorySize: defaultMetricsHistorySize,
		})
}

// StartAllServicesWithParams leaves the web application off when the listen
// address is empty. Visible for testing and the CLI.
func StartAllServicesWithParams(conf *configs.PlatformConfig, listenAddr string) (*ServiceContext, error) {
	return StartAllServicesWithTrace(conf, listenAddr, nil)
}

// StartAllServicesWithTrace reports the construction phases on the given
// trace context, which may be nil.
func StartAllServicesWithTrace(conf *configs.PlatformConfig, listenAddr string, traceCtx trace.TraceContext) (*ServiceContext, error) {
	log.Log(log.Entrypoint).Info("ServiceContext start all services",
		zap.String("listenAddr", listenAddr))
	opts := startupOptions{
		startWebAppFlag: listenAddr != "",
		listenAddr:      listenAddr,
		historySize:     defaultHistorySize,
		traceContext:    traceCtx,
	}
	if opts.startWebAppFlag {
		opts.metricsHistorySize = defaultMetricsHistorySize
	}
	return startAllServicesWithParameters(conf, opts)
}

func startAllServicesWithParameters(conf *configs.PlatformConfig, opts startupOptions) (*ServiceContext, error) {
	log.Log(log.Entrypoint).Info("registering benchmark metrics")
	metrics.GetBenchMetrics()

	bench, err := platform.NewBenchPlatformWithTrace(conf, opts.traceContext)
	if err != nil {
		return nil, err
	}

	context := &ServiceContext{
		Platform: bench,
		History:  platform.NewRunHistory(opts.historySize),
	}

	var imHistory *history.InternalMetricsHistory
	if opts.metricsHistorySize != 0 {
		log.Log(log.Entrypoint).Info("creating InternalMetricsHistory")
		imHistory = history.NewInternalMetricsHistory(opts.metricsHistorySize)
		metricsCollector := metrics.NewInternalMetricsCollector(imHistory)
		metricsCollector.StartService()
		context.MetricsCollector = metricsCollector
	}

	if opts.startWebAppFlag {
		log.Log(log.Entrypoint).Info("ServiceContext start web application service")
		webapp := webservice.NewWebApp(opts.listenAddr, bench, context.History, imHistory)
		webapp.StartWebApp()
		context.WebApp = webapp
	}

	return context, nil
}
