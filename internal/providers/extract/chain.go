package extract

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Step is one provider with its own probe and execution deadlines. A zero
// ProbeTimeout skips the probe (local parsers have nothing to probe).
type Step struct {
	Provider     Provider
	ProbeTimeout time.Duration
	ExecTimeout  time.Duration
}

// Chain runs providers in order: probe under a short deadline, skip on
// probe failure without paying for the expensive path, extract under the
// provider's own deadline, and fall through on timeout, error, or an
// unusable result. The chain never raises outward.
type Chain struct {
	steps []Step
	log   *logrus.Logger
}

func NewChain(log *logrus.Logger, steps ...Step) *Chain {
	if log == nil {
		log = logrus.New()
	}
	return &Chain{steps: steps, log: log}
}

func (c *Chain) Extract(ctx context.Context, in Input) *Result {
	for _, step := range c.steps {
		log := c.log.WithFields(logrus.Fields{
			"resume_id": in.ResumeID,
			"provider":  step.Provider.Name(),
		})

		if err := probe(ctx, step); err != nil {
			log.WithError(err).Warn("provider probe failed, skipping")
			continue
		}

		res, err := run(ctx, step, in)
		if err != nil {
			log.WithError(err).Warn("provider extraction failed, trying next")
			continue
		}
		if !res.Usable() {
			log.Warn("provider returned an unusable result, trying next")
			continue
		}

		log.WithField("confidence", res.Confidence).Info("extraction accepted")
		return res
	}

	c.log.WithField("resume_id", in.ResumeID).Warn("all providers exhausted, using fallback result")
	return FallbackResult(in)
}

func probe(ctx context.Context, step Step) error {
	if step.ProbeTimeout <= 0 {
		return step.Provider.Probe(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, step.ProbeTimeout)
	defer cancel()
	return step.Provider.Probe(ctx)
}

func run(ctx context.Context, step Step, in Input) (*Result, error) {
	if step.ExecTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, step.ExecTimeout)
		defer cancel()
	}
	return step.Provider.Extract(ctx, in)
}

// DefaultSteps is the production ordering: fast local model, remote
// extraction service, deterministic heuristic parser, minimal stub.
func DefaultSteps(localModelURL, remoteURL, model string) []Step {
	var steps []Step
	if localModelURL != "" {
		steps = append(steps, Step{
			Provider:     NewLocalModel(localModelURL, model),
			ProbeTimeout: 5 * time.Second,
			ExecTimeout:  90 * time.Second,
		})
	}
	if remoteURL != "" {
		steps = append(steps, Step{
			Provider:     NewRemoteService(remoteURL),
			ProbeTimeout: 5 * time.Second,
			ExecTimeout:  60 * time.Second,
		})
	}
	steps = append(steps,
		Step{Provider: Heuristic{}, ExecTimeout: 5 * time.Second},
		Step{Provider: Stub{}},
	)
	return steps
}
