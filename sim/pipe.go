package sim

// PipeID identifies a pipe in the fixed process line.
type PipeID string

const (
	PipeRawToPasteurizer       PipeID = "raw->pasteurizer"
	PipePasteurizerToFermenter PipeID = "pasteurizer->fermenter"
	PipeFermenterToProduct     PipeID = "fermenter->product"
)

// Pipe connects two vessels and carries only whether fluid moved through it
// on the last tick. The flow-routing stages set the flag; the pipe computes
// nothing itself.
type Pipe struct {
	id      PipeID
	source  VesselID
	target  VesselID
	flowing bool
}

// NewPipe creates an idle pipe from source to target.
func NewPipe(id PipeID, source, target VesselID) *Pipe {
	return &Pipe{id: id, source: source, target: target}
}

func (p *Pipe) ID() PipeID { return p.id }
func (p *Pipe) Source() VesselID { return p.source }
func (p *Pipe) Target() VesselID { return p.target }
func (p *Pipe) Flowing() bool { return p.flowing }

// State returns a copy of the observable pipe state.
func (p *Pipe) State() PipeState {
	return PipeState{ID: p.id, Source: p.source, Target: p.target, Flowing: p.flowing}
}
