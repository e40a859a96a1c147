package engine

// Phase enumerates the pipeline loader states.
type Phase int

const (
	// PhaseLoading waits for the init kernel to report ready.
	PhaseLoading Phase = iota
	// PhaseInit performs the one-time seeding dispatch.
	PhaseInit
	// PhaseUpdate advances one full generation per tick.
	PhaseUpdate
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInit:
		return "init"
	case PhaseUpdate:
		return "update"
	}
	return "invalid"
}

// pipelineLoader gates dispatch until kernels have specialized, then drives
// the alternating buffer parity forever after. It is polled exactly once per
// orchestrator tick; kernel compilation happens elsewhere, so a tick spent in
// Loading or Init costs nothing but the poll.
type pipelineLoader struct {
	phase  Phase
	parity int
}

// poll advances the state machine one step and reports the state the current
// tick dispatches under. A failed kernel compilation is fatal and surfaces
// here, before any simulation dispatch has happened.
func (l *pipelineLoader) poll(p *program) (Phase, int, error) {
	switch l.phase {
	case PhaseLoading:
		if err := p.init.compileErr(); err != nil {
			return l.phase, l.parity, err
		}
		if p.init.state() == kernelReady {
			l.phase = PhaseInit
		}
	case PhaseInit:
		if err := p.update.compileErr(); err != nil {
			return l.phase, l.parity, err
		}
		if err := p.count.compileErr(); err != nil {
			return l.phase, l.parity, err
		}
		if p.update.state() == kernelReady && p.count.state() == kernelReady {
			l.phase = PhaseUpdate
			l.parity = 1
		}
	case PhaseUpdate:
		l.parity = 1 - l.parity
	}
	return l.phase, l.parity, nil
}
