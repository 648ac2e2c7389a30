package reactive

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

type edge struct {
	producer, consumer NodeID
}

type paramEdge struct {
	param    ParamID
	consumer NodeID
}

type statusEdge struct {
	consumer NodeID
	mask     StatusFlags
}

// subscriptions stores every edge twice, once per direction. The membership
// sets keep both directions in step and make duplicate reads free.
type subscriptions struct {
	edges     mapset.Set[edge]
	sources   map[NodeID][]NodeID
	observers map[NodeID][]NodeID

	paramEdges     mapset.Set[paramEdge]
	paramObservers map[ParamID][]NodeID
	paramSources   map[NodeID][]ParamID

	statusObservers map[ElementID][]statusEdge
	statusSources   map[NodeID][]ElementID
}

func newSubscriptions() subscriptions {
	return subscriptions{
		edges:           mapset.NewThreadUnsafeSet[edge](),
		sources:         map[NodeID][]NodeID{},
		observers:       map[NodeID][]NodeID{},
		paramEdges:      mapset.NewThreadUnsafeSet[paramEdge](),
		paramObservers:  map[ParamID][]NodeID{},
		paramSources:    map[NodeID][]ParamID{},
		statusObservers: map[ElementID][]statusEdge{},
		statusSources:   map[NodeID][]ElementID{},
	}
}

func (s *subscriptions) addEdge(producer, consumer NodeID) bool {
	if !s.edges.Add(edge{producer, consumer}) {
		return false
	}
	s.sources[consumer] = append(s.sources[consumer], producer)
	s.observers[producer] = append(s.observers[producer], consumer)
	return true
}

func (s *subscriptions) addParam(param ParamID, consumer NodeID) {
	if !s.paramEdges.Add(paramEdge{param, consumer}) {
		return
	}
	s.paramObservers[param] = append(s.paramObservers[param], consumer)
	s.paramSources[consumer] = append(s.paramSources[consumer], param)
}

func (s *subscriptions) addStatus(el ElementID, mask StatusFlags, consumer NodeID) {
	list := s.statusObservers[el]
	for i := range list {
		if list[i].consumer == consumer {
			list[i].mask |= mask
			return
		}
	}
	s.statusObservers[el] = append(list, statusEdge{consumer: consumer, mask: mask})
	s.statusSources[consumer] = append(s.statusSources[consumer], el)
}

// clearSources drops every edge family that ends at consumer. It runs before
// each re-evaluation so the next run records exactly what it reads.
func (s *subscriptions) clearSources(consumer NodeID) {
	for _, p := range s.sources[consumer] {
		s.edges.Remove(edge{p, consumer})
		s.observers[p] = without(s.observers[p], consumer)
		if len(s.observers[p]) == 0 {
			delete(s.observers, p)
		}
	}
	delete(s.sources, consumer)

	for _, param := range s.paramSources[consumer] {
		s.paramEdges.Remove(paramEdge{param, consumer})
		s.paramObservers[param] = without(s.paramObservers[param], consumer)
		if len(s.paramObservers[param]) == 0 {
			delete(s.paramObservers, param)
		}
	}
	delete(s.paramSources, consumer)

	for _, el := range s.statusSources[consumer] {
		list := slices.DeleteFunc(s.statusObservers[el], func(e statusEdge) bool {
			return e.consumer == consumer
		})
		if len(list) == 0 {
			delete(s.statusObservers, el)
		} else {
			s.statusObservers[el] = list
		}
	}
	delete(s.statusSources, consumer)
}

func (s *subscriptions) clearObservers(producer NodeID) {
	for _, c := range s.observers[producer] {
		s.edges.Remove(edge{producer, c})
		s.sources[c] = without(s.sources[c], producer)
		if len(s.sources[c]) == 0 {
			delete(s.sources, c)
		}
	}
	delete(s.observers, producer)
}

func (s *subscriptions) removeNode(id NodeID) {
	s.clearSources(id)
	s.clearObservers(id)
}

// forgetElement drops the status edges of an element that no longer exists.
func (s *subscriptions) forgetElement(el ElementID) {
	for _, e := range s.statusObservers[el] {
		s.statusSources[e.consumer] = without(s.statusSources[e.consumer], el)
		if len(s.statusSources[e.consumer]) == 0 {
			delete(s.statusSources, e.consumer)
		}
	}
	delete(s.statusObservers, el)
}

func (s *subscriptions) statusSeeds(el ElementID, changed StatusFlags) []NodeID {
	var seeds []NodeID
	for _, e := range s.statusObservers[el] {
		if e.mask&changed != 0 {
			seeds = append(seeds, e.consumer)
		}
	}
	return seeds
}

func without[T comparable](list []T, v T) []T {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
