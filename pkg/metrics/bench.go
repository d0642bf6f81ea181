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

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/log"
)

// BenchMetrics to declare benchmark platform metrics
type BenchMetrics struct {
	jobTranslation *prometheus.CounterVec
	reportRows     *prometheus.CounterVec
	passesComplete prometheus.Counter
	assignments    prometheus.Gauge
	resources      prometheus.Gauge
	passLatency    prometheus.Histogram
}

// InitBenchMetrics to initialize benchmark platform metrics
func InitBenchMetrics() *BenchMetrics {
	b := &BenchMetrics{}

	b.jobTranslation = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "job_translation_total",
			Help:      "Total number of job record translations. State of the attempt includes `translated` and `rejected`.",
		}, []string{"result"})

	b.reportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "report_rows_total",
			Help:      "Total number of assignment report rows. State of the row includes `collected` and `skipped`.",
		}, []string{"result"})

	b.passesComplete = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "passes_completed_total",
			Help:      "Total number of completed scheduling passes.",
		})

	b.assignments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "assignments_saved",
			Help:      "Number of assignments in the store of the current pass.",
		})

	b.resources = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "resources_total",
			Help:      "Number of resource ids in the default range of the platform.",
		})

	b.passLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: BenchSubsystem,
			Name:      "pass_latency_seconds",
			Help:      "Latency of one full scheduling pass, in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 10, 6), // start from 0.1ms
		})

	// Register the metrics
	var metricsList = []prometheus.Collector{
		b.jobTranslation,
		b.reportRows,
		b.passesComplete,
		b.assignments,
		b.resources,
		b.passLatency,
	}
	for _, metric := range metricsList {
		if err := prometheus.Register(metric); err != nil {
			log.Log(log.Metrics).Warn("failed to register metrics collector", zap.Error(err))
		}
	}
	return b
}

func (b *BenchMetrics) Reset() {
	b.jobTranslation.Reset()
	b.reportRows.Reset()
	b.assignments.Set(0)
	b.resources.Set(0)
}

func SinceInSeconds(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func (b *BenchMetrics) ObservePassLatency(start time.Time) {
	b.passLatency.Observe(SinceInSeconds(start))
}

func (b *BenchMetrics) IncTranslatedJob() {
	b.jobTranslation.With(prometheus.Labels{"result": "translated"}).Inc()
}

func (b *BenchMetrics) AddTranslatedJobs(value int) {
	b.jobTranslation.With(prometheus.Labels{"result": "translated"}).Add(float64(value))
}

func (b *BenchMetrics) IncTranslationRejected() {
	b.jobTranslation.With(prometheus.Labels{"result": "rejected"}).Inc()
}

func (b *BenchMetrics) getTranslatedJobs() (int, error) {
	metricDto := &dto.Metric{}
	err := b.jobTranslation.With(prometheus.Labels{"result": "translated"}).Write(metricDto)
	if err == nil {
		return int(*metricDto.Counter.Value), nil
	}
	return -1, err
}

func (b *BenchMetrics) IncCollectedRow() {
	b.reportRows.With(prometheus.Labels{"result": "collected"}).Inc()
}

func (b *BenchMetrics) IncSkippedRow() {
	b.reportRows.With(prometheus.Labels{"result": "skipped"}).Inc()
}

func (b *BenchMetrics) getSkippedRows() (int, error) {
	metricDto := &dto.Metric{}
	err := b.reportRows.With(prometheus.Labels{"result": "skipped"}).Write(metricDto)
	if err == nil {
		return int(*metricDto.Counter.Value), nil
	}
	return -1, err
}

func (b *BenchMetrics) getCollectedRows() (int, error) {
	metricDto := &dto.Metric{}
	err := b.reportRows.With(prometheus.Labels{"result": "collected"}).Write(metricDto)
	if err == nil {
		return int(*metricDto.Counter.Value), nil
	}
	return -1, err
}

func (b *BenchMetrics) IncPassesCompleted() {
	b.passesComplete.Inc()
}

func (b *BenchMetrics) getPassesCompleted() (int, error) {
	metricDto := &dto.Metric{}
	err := b.passesComplete.Write(metricDto)
	if err == nil {
		return int(*metricDto.Counter.Value), nil
	}
	return -1, err
}

func (b *BenchMetrics) SetAssignmentsSaved(value int) {
	b.assignments.Set(float64(value))
}

func (b *BenchMetrics) getAssignmentsSaved() (int, error) {
	metricDto := &dto.Metric{}
	err := b.assignments.Write(metricDto)
	if err == nil {
		return int(*metricDto.Gauge.Value), nil
	}
	return -1, err
}

func (b *BenchMetrics) SetResourcesTotal(value int64) {
	b.resources.Set(float64(value))
}

func (b *BenchMetrics) getResourcesTotal() (int, error) {
	metricDto := &dto.Metric{}
	err := b.resources.Write(metricDto)
	if err == nil {
		return int(*metricDto.Gauge.Value), nil
	}
	return -1, err
}
