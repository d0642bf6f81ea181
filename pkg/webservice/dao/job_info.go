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

type JobDAOInfo struct {
	ID        int64              `json:"id"`
	Queue     string             `json:"queue,omitempty"`
	Name      string             `json:"name,omitempty"`
	Project   string             `json:"project,omitempty"`
	User      string             `json:"user,omitempty"`
	State     string             `json:"state"`
	Assigned  bool               `json:"assigned"`
	Granted   []procset.Interval `json:"granted,omitempty"`
	Moldables []MoldableDAOInfo  `json:"moldables"`
}

type MoldableDAOInfo struct {
	ID       int64            `json:"id"`
	Walltime int64            `json:"walltime"`
	Requests []RequestDAOInfo `json:"requests,omitempty"`
}

type RequestDAOInfo struct {
	Filter []procset.Interval `json:"filter,omitempty"`
	Levels []LevelDAOInfo     `json:"levels"`
}

type LevelDAOInfo struct {
	Partition string `json:"partition"`
	Count     uint32 `json:"count"`
}
