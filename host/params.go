// Package host holds plugin host parameters as normalized values and reports
// their changes to the reactive engine.
package host

import (
	"fmt"
	"slices"

	"github.com/delaneyj/signalgraph/reactive"
)

type Parameter struct {
	ID      reactive.ParamID
	Name    string
	Default float64
}

// Params is an in-memory parameter store. Values are normalized to [0, 1].
type Params struct {
	defs     map[reactive.ParamID]Parameter
	values   map[reactive.ParamID]float64
	onChange func(id reactive.ParamID)
}

var _ reactive.ParameterStore = (*Params)(nil)

func NewParams(defs ...Parameter) *Params {
	p := &Params{
		defs:   map[reactive.ParamID]Parameter{},
		values: map[reactive.ParamID]float64{},
	}
	for _, d := range defs {
		p.Define(d)
	}
	return p
}

func (p *Params) Define(d Parameter) {
	if _, ok := p.defs[d.ID]; ok {
		panic(fmt.Sprintf("host: parameter %d defined twice", d.ID))
	}
	p.defs[d.ID] = d
	p.values[d.ID] = clamp(d.Default)
}

// OnChange registers the callback run after every effective change, usually
// ReactiveSystem.NotifyParameterChanged.
func (p *Params) OnChange(fn func(id reactive.ParamID)) {
	p.onChange = fn
}

func (p *Params) ParameterValue(id reactive.ParamID) float64 {
	v, ok := p.values[id]
	if !ok {
		panic(fmt.Sprintf("host: unknown parameter %d", id))
	}
	return v
}

// Set stores a clamped value and reports whether it changed.
func (p *Params) Set(id reactive.ParamID, v float64) bool {
	old, ok := p.values[id]
	if !ok {
		panic(fmt.Sprintf("host: unknown parameter %d", id))
	}
	v = clamp(v)
	if v == old {
		return false
	}
	p.values[id] = v
	if p.onChange != nil {
		p.onChange(id)
	}
	return true
}

func (p *Params) Reset(id reactive.ParamID) bool {
	d, ok := p.defs[id]
	if !ok {
		panic(fmt.Sprintf("host: unknown parameter %d", id))
	}
	return p.Set(id, d.Default)
}

func (p *Params) Lookup(name string) (Parameter, bool) {
	for _, d := range p.defs {
		if d.Name == name {
			return d, true
		}
	}
	return Parameter{}, false
}

// IDs lists defined parameters in ascending id order.
func (p *Params) IDs() []reactive.ParamID {
	ids := make([]reactive.ParamID, 0, len(p.defs))
	for id := range p.defs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
