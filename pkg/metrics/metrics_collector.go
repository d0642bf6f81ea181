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

package metrics

import (
	"time"

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/metrics/history"
)

var tickerDefault = 1 * time.Minute

// InternalMetricsCollector samples the benchmark counters on a fixed
// interval and stores the trend in the internal metrics history backing the
// web UI.
type InternalMetricsCollector struct {
	ticker         *time.Ticker
	stopped        chan bool
	metricsHistory *history.InternalMetricsHistory
}

func NewInternalMetricsCollector(hcInfo *history.InternalMetricsHistory) *InternalMetricsCollector {
	finished := make(chan bool)
	ticker := time.NewTicker(tickerDefault)

	return &InternalMetricsCollector{
		ticker,
		finished,
		hcInfo,
	}
}

func (u *InternalMetricsCollector) StartService() {
	go func() {
		for {
			select {
			case <-u.stopped:
				return
			case <-u.ticker.C:
				log.Log(log.Metrics).Debug("sampling benchmark counters into the trend history")

				totalPasses, err := GetBenchMetrics().getPassesCompleted()
				if err != nil {
					log.Log(log.Metrics).Warn("could not read the pass counter", zap.Error(err))
					continue
				}
				totalAssigned, err := GetBenchMetrics().getCollectedRows()
				if err != nil {
					log.Log(log.Metrics).Warn("could not read the collected row counter", zap.Error(err))
					continue
				}
				u.metricsHistory.Store(totalPasses, totalAssigned)
			}
		}
	}()
}

func (u *InternalMetricsCollector) Stop() {
	u.stopped <- true
}

// visible only for test
func setInternalMetricsCollectorTicker(newDefault time.Duration) {
	tickerDefault = newDefault
}
