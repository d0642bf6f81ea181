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

package platform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oar-team/oar-scheduler-redox/pkg/common"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/configs"
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
	"github.com/oar-team/oar-scheduler-redox/pkg/log"
	"github.com/oar-team/oar-scheduler-redox/pkg/platform/objects"
)

// TranslateJobs converts the raw pending job records into canonical job
// entities. It returns the keyed lookup, the ids in arrival order and the
// count: consumers need O(1) access and a stable iteration order at the same
// time. Translation is fail fast: a single invalid record aborts the whole
// batch with InvalidJob, a partially translated batch is not a valid
// benchmark input.
func TranslateJobs(records []configs.JobConfig, defaultIntervals procset.ProcSet) (map[int64]*objects.Job, []int64, int, error) {
	jobs := make(map[int64]*objects.Job, len(records))
	order := make([]int64, 0, len(records))
	for _, record := range records {
		if _, ok := jobs[record.ID]; ok {
			return nil, nil, 0, fmt.Errorf("%w: duplicate job id %d", common.InvalidJob, record.ID)
		}
		job, err := translateJob(record, defaultIntervals)
		if err != nil {
			return nil, nil, 0, err
		}
		jobs[record.ID] = job
		order = append(order, record.ID)
	}
	log.Log(log.Translator).Info("job records translated", zap.Int("count", len(order)))
	return jobs, order, len(order), nil
}

func translateJob(record configs.JobConfig, defaultIntervals procset.ProcSet) (*objects.Job, error) {
	if len(record.Moldables) == 0 {
		return nil, fmt.Errorf("%w: job %d has no moldable requirements", common.InvalidJob, record.ID)
	}
	// moldables keep their submission order, it encodes which alternatives
	// the engine should prefer
	moldables := make([]*objects.Moldable, 0, len(record.Moldables))
	for _, m := range record.Moldables {
		if m.Walltime <= 0 {
			return nil, fmt.Errorf("%w: job %d moldable %d has walltime %d", common.InvalidJob, record.ID, m.ID, m.Walltime)
		}
		requests := make([]objects.HierarchyRequest, 0, len(m.Requests))
		for _, req := range m.Requests {
			filter, err := filterFromConfig(req.Filter, defaultIntervals)
			if err != nil {
				return nil, fmt.Errorf("%w: job %d moldable %d: %v", common.InvalidJob, record.ID, m.ID, err)
			}
			lvls := make([]objects.LevelRequest, 0, len(req.Levels))
			for _, level := range req.Levels {
				lvls = append(lvls, objects.LevelRequest{Partition: level.Partition, Count: level.Count})
			}
			requests = append(requests, objects.HierarchyRequest{Filter: filter, Levels: lvls})
		}
		moldables = append(moldables, objects.NewMoldable(m.ID, m.Walltime, requests))
	}
	return objects.NewJob(record.ID, record.Queue, record.Name, record.Project, record.User, moldables), nil
}

// filterFromConfig converts a request filter. An omitted filter does not
// restrict the request, it resolves to the whole default range.
func filterFromConfig(pairs []configs.IntervalConfig, defaultIntervals procset.ProcSet) (procset.ProcSet, error) {
	if len(pairs) == 0 {
		return defaultIntervals, nil
	}
	intervals := make([]procset.Interval, 0, len(pairs))
	for _, pair := range pairs {
		iv, err := intervalFromConfig(pair)
		if err != nil {
			return procset.ProcSet{}, err
		}
		intervals = append(intervals, iv)
	}
	return procset.NewProcSet(intervals...), nil
}
