package graph

import (
	"github.com/mosaicnetworks/dcr/src/event"
	"github.com/mosaicnetworks/dcr/src/net"
)

// Plan is the outcome of running the marking algebra for one execution
// without touching any event: the primitive deltas to apply to local events,
// in order, and the effects to request from other main nodes.
type Plan struct {
	Deltas []event.Delta

	peerOrder []string
	external  map[string]*peerEffects
}

type peerEffects struct {
	order   []string
	effects map[string][]string
}

func newPlan() *Plan {
	return &Plan{
		external: make(map[string]*peerEffects),
	}
}

// Messages returns, per peer, one line per remote event with every effect
// requested on that event.
func (p *Plan) Messages() map[string][]net.EffectLine {
	res := make(map[string][]net.EffectLine)
	for _, peer := range p.peerOrder {
		pe := p.external[peer]
		for _, name := range pe.order {
			res[peer] = append(res[peer], net.EffectLine{
				Event:   name,
				Effects: pe.effects[name],
			})
		}
	}
	return res
}

func (p *Plan) emit(ref event.RemoteEventRef, effect event.Effect) {
	pe, ok := p.external[ref.Peer]
	if !ok {
		pe = &peerEffects{effects: make(map[string][]string)}
		p.external[ref.Peer] = pe
		p.peerOrder = append(p.peerOrder, ref.Peer)
	}
	if _, ok := pe.effects[ref.Name]; !ok {
		pe.order = append(pe.order, ref.Name)
	}
	pe.effects[ref.Name] = append(pe.effects[ref.Name], effect.String())
}

// planner simulates the marking algebra on copies of the markings it reads.
// Every change is recorded as a Delta; every change owed by another main node
// is recorded as an effect on the Plan.
type planner struct {
	overlay map[*event.LocalEvent]*event.Marking
	self    *event.LocalEvent
	plan    *Plan
}

func newPlanner(self *event.LocalEvent) *planner {
	return &planner{
		overlay: make(map[*event.LocalEvent]*event.Marking),
		self:    self,
		plan:    newPlan(),
	}
}

func (p *planner) marking(e *event.LocalEvent) *event.Marking {
	if m, ok := p.overlay[e]; ok {
		return m
	}
	m := e.Marking()
	p.overlay[e] = &m
	return &m
}

func (p *planner) record(d event.Delta) {
	d.Apply(p.marking(d.Target))
	p.plan.Deltas = append(p.plan.Deltas, d)
}

func (p *planner) setFlag(e *event.LocalEvent, kind event.DeltaKind, from, to bool) {
	if from == to {
		return
	}
	p.record(event.Delta{Target: e, Kind: kind, From: from, To: to})
}

func (p *planner) addCounter(targets []*event.LocalEvent, kind event.DeltaKind, by int) {
	for _, t := range targets {
		p.record(event.Delta{Target: t, Kind: kind, By: by})
	}
}

func (p *planner) emit(refs []event.RemoteEventRef, effect event.Effect) {
	for _, ref := range refs {
		p.plan.emit(ref, effect)
	}
}

// execute applies the effect of executing e: the conditions it guards are
// satisfied, the milestones it guards are released if it was pending, it
// becomes executed and not pending, then its exclusions, inclusions and
// responses take place, in that order.
func (p *planner) execute(e *event.LocalEvent) {
	m := p.marking(e)

	if !m.Executed {
		p.addCounter(e.Relations.Conditions, event.AddCondition, -1)
		p.emit(e.External.Conditions, event.EffectConditionDown)
	}
	if m.Pending && m.Included {
		p.addCounter(e.Relations.Milestones, event.AddMilestone, -1)
		p.emit(e.External.Milestones, event.EffectMilestoneDown)
	}

	p.setFlag(e, event.SetExecuted, m.Executed, true)
	p.setFlag(e, event.SetPending, m.Pending, false)

	for _, t := range e.Relations.Excludes {
		p.exclude(t)
	}
	p.emit(e.External.Excludes, event.EffectExclude)

	for _, t := range e.Relations.Includes {
		p.include(t)
	}
	p.emit(e.External.Includes, event.EffectInclude)

	for _, t := range e.Relations.Responses {
		p.response(t)
	}
	p.emit(e.External.Responses, event.EffectResponse)
}

func (p *planner) exclude(t *event.LocalEvent) {
	m := p.marking(t)
	if !m.Included || t == p.self {
		return
	}

	p.setFlag(t, event.SetIncluded, true, false)

	if !m.Executed {
		p.addCounter(t.Relations.Conditions, event.AddCondition, -1)
		p.emit(t.External.Conditions, event.EffectConditionDown)
	}
	if m.Pending {
		p.addCounter(t.Relations.Milestones, event.AddMilestone, -1)
		p.emit(t.External.Milestones, event.EffectMilestoneDown)
	}
}

func (p *planner) include(t *event.LocalEvent) {
	m := p.marking(t)
	if m.Included {
		return
	}

	p.setFlag(t, event.SetIncluded, false, true)

	if !m.Executed {
		p.addCounter(t.Relations.Conditions, event.AddCondition, 1)
		p.emit(t.External.Conditions, event.EffectConditionUp)
	}
	if m.Pending {
		p.addCounter(t.Relations.Milestones, event.AddMilestone, 1)
		p.emit(t.External.Milestones, event.EffectMilestoneUp)
	}
}

func (p *planner) response(t *event.LocalEvent) {
	m := p.marking(t)
	wasPending := m.Pending

	p.setFlag(t, event.SetPending, wasPending, true)

	if m.Included && !wasPending {
		p.addCounter(t.Relations.Milestones, event.AddMilestone, 1)
		p.emit(t.External.Milestones, event.EffectMilestoneUp)
	}
}

func (p *planner) apply(a event.Action) {
	switch a.Effect {
	case event.EffectExclude:
		p.exclude(a.Target)
	case event.EffectInclude:
		p.include(a.Target)
	case event.EffectResponse:
		p.response(a.Target)
	case event.EffectConditionUp:
		p.record(event.Delta{Target: a.Target, Kind: event.AddCondition, By: 1})
	case event.EffectConditionDown:
		p.record(event.Delta{Target: a.Target, Kind: event.AddCondition, By: -1})
	case event.EffectMilestoneUp:
		p.record(event.Delta{Target: a.Target, Kind: event.AddMilestone, By: 1})
	case event.EffectMilestoneDown:
		p.record(event.Delta{Target: a.Target, Kind: event.AddMilestone, By: -1})
	}
}

// NewMarkingsReversible runs the marking algebra for src without mutating any
// event. For a LocalEvent this is the effect of executing it; for a
// ForeignEvent it is the effect of its actions. The events involved must be
// reserved by the caller so the markings read here stay valid.
func (g *Graph) NewMarkingsReversible(src event.HasRelations) *Plan {
	switch s := src.(type) {
	case *event.LocalEvent:
		p := newPlanner(s)
		p.execute(s)
		return p.plan
	case *event.ForeignEvent:
		p := newPlanner(nil)
		for _, a := range s.Actions {
			p.apply(a)
		}
		return p.plan
	default:
		return newPlan()
	}
}

// GetPeerMessages returns the BLOCK lines owed to each peer if src executed
// now.
func (g *Graph) GetPeerMessages(src event.HasRelations) map[string][]net.EffectLine {
	return g.NewMarkingsReversible(src).Messages()
}

// ChangeMarkings applies the effects of a foreign event, or reverts them if
// they were applied.
func (g *Graph) ChangeMarkings(f *event.ForeignEvent, revert bool) {
	state := g.foreignState(f)

	if revert {
		if state == event.Executed {
			revertDeltas(f.Applied)
			f.Applied = nil
		}
		g.setForeignState(f, event.Finished)
		return
	}

	if state != event.Blocked && state != event.Executing {
		return
	}

	plan := g.NewMarkingsReversible(f)
	applyDeltas(plan.Deltas)
	f.Applied = plan.Deltas
	g.setForeignState(f, event.Executed)
}

func (g *Graph) foreignState(f *event.ForeignEvent) event.ForeignState {
	g.foreignLock.Lock()
	defer g.foreignLock.Unlock()
	return f.State
}

func (g *Graph) setForeignState(f *event.ForeignEvent, s event.ForeignState) {
	g.foreignLock.Lock()
	defer g.foreignLock.Unlock()
	f.State = s
}

func applyDeltas(deltas []event.Delta) {
	for _, d := range deltas {
		d.Target.Update(d.Apply)
	}
}

func revertDeltas(deltas []event.Delta) {
	for i := len(deltas) - 1; i >= 0; i-- {
		deltas[i].Target.Update(deltas[i].Undo)
	}
}
