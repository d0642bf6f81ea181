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

package procset

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Interval is an inclusive range [Low, High] of resource ids.
type Interval struct {
	Low  uint32
	High uint32
}

// Count returns the number of ids covered by the interval.
func (i Interval) Count() int64 {
	return int64(i.High) - int64(i.Low) + 1
}

// MarshalJSON encodes the interval as a [low,high] pair, the wire shape used
// by the benchmark report.
func (i Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{i.Low, i.High})
}

// UnmarshalJSON decodes a [low,high] pair.
func (i *Interval) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	i.Low, i.High = pair[0], pair[1]
	return nil
}

// ProcSet is an ordered set of resource ids held as disjoint, non adjacent,
// inclusive intervals. The zero value is the empty set. Operations never
// mutate their receiver, they return new sets.
type ProcSet struct {
	intervals []Interval
}

// NewProcSet builds a normalized set from the given intervals: sorted by low
// id, overlapping and adjacent intervals merged. Intervals with low greater
// than high are dropped.
func NewProcSet(intervals ...Interval) ProcSet {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Low <= iv.High {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return ProcSet{}
	}
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Low == valid[j].Low {
			return valid[i].High < valid[j].High
		}
		return valid[i].Low < valid[j].Low
	})
	merged := make([]Interval, 0, len(valid))
	current := valid[0]
	for _, iv := range valid[1:] {
		// merge overlap and adjacency, the id domain is discrete
		if int64(iv.Low) <= int64(current.High)+1 {
			if iv.High > current.High {
				current.High = iv.High
			}
			continue
		}
		merged = append(merged, current)
		current = iv
	}
	merged = append(merged, current)
	return ProcSet{intervals: merged}
}

// NewSingleProcSet builds a set holding the single interval [low, high].
func NewSingleProcSet(low, high uint32) ProcSet {
	return NewProcSet(Interval{Low: low, High: high})
}

// Intervals returns a copy of the intervals in ascending order.
func (p ProcSet) Intervals() []Interval {
	result := make([]Interval, len(p.intervals))
	copy(result, p.intervals)
	return result
}

// IsEmpty returns true when the set holds no ids.
func (p ProcSet) IsEmpty() bool {
	return len(p.intervals) == 0
}

// Count returns the total number of ids in the set.
func (p ProcSet) Count() int64 {
	var total int64
	for _, iv := range p.intervals {
		total += iv.Count()
	}
	return total
}

// Begin returns the lowest id in the set, 0 for the empty set.
func (p ProcSet) Begin() uint32 {
	if len(p.intervals) == 0 {
		return 0
	}
	return p.intervals[0].Low
}

// End returns the highest id in the set, 0 for the empty set.
func (p ProcSet) End() uint32 {
	if len(p.intervals) == 0 {
		return 0
	}
	return p.intervals[len(p.intervals)-1].High
}

// Contains returns true when the id is part of the set.
func (p ProcSet) Contains(id uint32) bool {
	for _, iv := range p.intervals {
		if id < iv.Low {
			return false
		}
		if id <= iv.High {
			return true
		}
	}
	return false
}

// Union returns the set of ids present in either set.
func (p ProcSet) Union(other ProcSet) ProcSet {
	combined := make([]Interval, 0, len(p.intervals)+len(other.intervals))
	combined = append(combined, p.intervals...)
	combined = append(combined, other.intervals...)
	return NewProcSet(combined...)
}

// Intersect returns the set of ids present in both sets.
func (p ProcSet) Intersect(other ProcSet) ProcSet {
	var result []Interval
	i, j := 0, 0
	for i < len(p.intervals) && j < len(other.intervals) {
		a, b := p.intervals[i], other.intervals[j]
		low := a.Low
		if b.Low > low {
			low = b.Low
		}
		high := a.High
		if b.High < high {
			high = b.High
		}
		if low <= high {
			result = append(result, Interval{Low: low, High: high})
		}
		if a.High < b.High {
			i++
		} else {
			j++
		}
	}
	return ProcSet{intervals: result}
}

// Subtract returns the set of ids present in p but not in other.
func (p ProcSet) Subtract(other ProcSet) ProcSet {
	var result []Interval
	j := 0
	for _, a := range p.intervals {
		cur := int64(a.Low)
		for j < len(other.intervals) && int64(other.intervals[j].High) < cur {
			j++
		}
		for k := j; k < len(other.intervals) && int64(other.intervals[k].Low) <= int64(a.High); k++ {
			b := other.intervals[k]
			if int64(b.Low) > cur {
				result = append(result, Interval{Low: uint32(cur), High: b.Low - 1})
			}
			cur = int64(b.High) + 1
			if int64(b.High) >= int64(a.High) {
				break
			}
		}
		if cur <= int64(a.High) {
			result = append(result, Interval{Low: uint32(cur), High: a.High})
		}
	}
	return ProcSet{intervals: result}
}

// IsSubsetOf returns true when every id of p is part of other.
func (p ProcSet) IsSubsetOf(other ProcSet) bool {
	return p.Intersect(other).Equals(p)
}

// Equals returns true when both sets hold exactly the same ids.
func (p ProcSet) Equals(other ProcSet) bool {
	if len(p.intervals) != len(other.intervals) {
		return false
	}
	for i, iv := range p.intervals {
		if iv != other.intervals[i] {
			return false
		}
	}
	return true
}

// ClaimCores claims exactly count ids from the set, taking whole intervals
// left to right and splitting the last interval when needed. The second
// return value is false when the set holds fewer than count ids; claiming
// zero ids always succeeds with the empty set.
func (p ProcSet) ClaimCores(count uint32) (ProcSet, bool) {
	if int64(count) > p.Count() {
		return ProcSet{}, false
	}
	if count == 0 {
		return ProcSet{}, true
	}
	var selected []Interval
	remaining := int64(count)
	for _, iv := range p.intervals {
		size := iv.Count()
		if remaining >= size {
			selected = append(selected, iv)
			remaining -= size
			if remaining == 0 {
				break
			}
		} else {
			// split and stop
			selected = append(selected, Interval{Low: iv.Low, High: iv.Low + uint32(remaining) - 1})
			break
		}
	}
	return ProcSet{intervals: selected}, true
}

// String renders the set as low-high interval pairs, for example "0-15,32".
func (p ProcSet) String() string {
	if len(p.intervals) == 0 {
		return ""
	}
	parts := make([]string, 0, len(p.intervals))
	for _, iv := range p.intervals {
		if iv.Low == iv.High {
			parts = append(parts, strconv.FormatUint(uint64(iv.Low), 10))
			continue
		}
		parts = append(parts, strconv.FormatUint(uint64(iv.Low), 10)+"-"+strconv.FormatUint(uint64(iv.High), 10))
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes the set as an array of [low,high] pairs.
func (p ProcSet) MarshalJSON() ([]byte, error) {
	if p.intervals == nil {
		return json.Marshal([]Interval{})
	}
	return json.Marshal(p.intervals)
}

// UnmarshalJSON decodes and normalizes an array of [low,high] pairs.
func (p *ProcSet) UnmarshalJSON(data []byte) error {
	var intervals []Interval
	if err := json.Unmarshal(data, &intervals); err != nil {
		return err
	}
	*p = NewProcSet(intervals...)
	return nil
}
