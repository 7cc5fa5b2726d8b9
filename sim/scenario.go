package sim

import "fmt"

// Scenario names selectable from the CLI for isolating one mechanism.
const (
	ScenarioReactionOnly  = "reaction-only"
	ScenarioDiffusionOnly = "diffusion-only"
	ScenarioUptakeOnly    = "uptake-only"
	ScenarioDampingOnly   = "damping-only"
)

// ApplyScenario overrides parameters so only one mechanism is active,
// giving each a predictable signature in the metrics:
//
//	reaction-only:  sigma>0, D=lambda=alpha=0  -> mean R rises
//	diffusion-only: D>0, sigma=lambda=alpha=0  -> max falls, min rises, mean steady
//	uptake-only:    alpha>0, sigma=D=0         -> mean R falls where agents sit
//	damping-only:   chi=0, gamma high          -> mean velocity decays
func ApplyScenario(name string, rd *RDParams, ap *AgentParams) error {
	switch name {
	case ScenarioReactionOnly:
		rd.DR = 0
		rd.DW = 0
		rd.LambdaR = 0
		rd.LambdaW = 0
		rd.AlphaH = 0
		rd.SigmaR = 0.02
	case ScenarioDiffusionOnly:
		rd.SigmaR = 0
		rd.LambdaR = 0
		rd.AlphaH = 0
		rd.DR = 1.0
	case ScenarioUptakeOnly:
		rd.SigmaR = 0
		rd.DR = 0
		rd.AlphaH = 0.2
	case ScenarioDampingOnly:
		ap.ChiR = 0
		ap.ChiW = 0
		ap.Gamma = 0.2
	default:
		return fmt.Errorf("sim: unknown scenario %q", name)
	}
	return nil
}
