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

package dao

import (
	"github.com/oar-team/oar-scheduler-redox/pkg/common/procset"
)

// ResourceSetDAOInfo is the JSON view of the resource topology: the global id
// range, the hierarchy partitions with their groups as [low,high] pairs and
// the availability windows.
type ResourceSetDAOInfo struct {
	DefaultIntervals []procset.Interval              `json:"defaultIntervals"`
	ResourceCount    int64                           `json:"resourceCount"`
	Partitions       map[string][][]procset.Interval `json:"partitions,omitempty"`
	UnitPartition    string                          `json:"unitPartition,omitempty"`
	Availability     []AvailabilityDAOInfo           `json:"availability,omitempty"`
}

type AvailabilityDAOInfo struct {
	Time int64              `json:"time"`
	IDs  []procset.Interval `json:"ids"`
}
