// Package digest implements the weekly content digest engine: eliciting
// structured tool calls from a generative model, converging on a fixed-size
// unique set, executing them against a platform search adapter and rendering
// the result. Every path produces a complete digest; only a missing profile
// is fatal to a request.
package digest

import (
	"context"
	"fmt"
	"log"

	"docbot/config"
	"docbot/internal/profile"
	"docbot/provider"
)

// Engine wires the uniqueness loop and the assembler behind one entry point.
type Engine struct {
	loop      *Loop
	assembler *Assembler
	logger    *log.Logger
}

func NewEngine(cfg config.DigestConfig, llm provider.Provider, temperature float64, searcher Searcher) *Engine {
	logger := log.New(log.Writer(), "[DIGEST] ", log.LstdFlags)
	gen := &Generator{Provider: llm, Temperature: temperature}
	return &Engine{
		loop: &Loop{
			Gen:              gen,
			Target:           cfg.TargetCalls,
			ExtraAttempts:    cfg.ExtraAttempts,
			RequireCondition: cfg.RequireConditionTerm,
			Logger:           logger,
		},
		assembler: &Assembler{
			Searcher: searcher,
			Target:   cfg.TargetCalls,
			Logger:   logger,
		},
		logger: logger,
	}
}

// WeeklyUpdate generates one digest for an onboarded profile. The profile is
// read-only here; errors are only returned for unusable profiles, never for
// generation or search failures.
func (e *Engine) WeeklyUpdate(ctx context.Context, prof profile.Profile) (Digest, error) {
	if prof.Condition == "" {
		return Digest{}, fmt.Errorf("profile %s has no condition set", prof.UserID)
	}
	p, ok := PlatformFromPreference(prof.NewsPref)
	if !ok {
		e.logger.Printf("unknown platform preference %q for %s, defaulting to web", prof.NewsPref, prof.UserID)
		p = PlatformWeb
	}

	calls := e.loop.CollectCalls(ctx, p, prof)
	return e.assembler.Assemble(ctx, prof.Condition, calls), nil
}
