// Package process drives the provider pipeline: per-round validation,
// binding construction, and at-most-once factory generation per
// module.
package process

import (
	"errors"
	"io"
	"log/slog"

	"github.com/provc/provc/internal/binding"
	"github.com/provc/provc/internal/diag"
	"github.com/provc/provc/internal/entity"
	"github.com/provc/provc/internal/gen"
	"github.com/provc/provc/internal/validate"
)

// Step is the processing orchestrator for producer modules.
//
// The host invokes Process once per round with that round's marker
// grouping. Across rounds the Step guarantees that each module gets at
// most one real processing attempt: once its structural pre-check has
// passed, it is validated and (if eligible) generated exactly once,
// then remembered for the rest of the session.
//
// All mutation is confined to the single-threaded Process call; the
// processed set is owned exclusively by this Step.
//
// INVARIANTS:
//   - Iteration over modules and methods follows declaration order, so
//     diagnostics and artifacts are reproducible for identical input.
//   - A module is marked processed whenever its pre-check passes,
//     regardless of validation or generation outcome.
//   - A generation failure for one binding never aborts sibling
//     bindings or other modules.
type Step struct {
	sink      diag.Sink
	modules   *validate.ModuleValidator
	produces  *validate.MethodValidator
	binds     *validate.MethodValidator
	bindings  *binding.Factory
	generator *gen.Generator
	resolver  validate.Resolver
	processed *ProcessedSet
	log       *slog.Logger
}

// StepOption configures a Step.
type StepOption func(*Step)

// WithLogger sets the step's logger. The default discards everything.
func WithLogger(log *slog.Logger) StepOption {
	return func(s *Step) {
		s.log = log
	}
}

// WithResolver replaces the structural pre-check collaborator.
func WithResolver(r validate.Resolver) StepOption {
	return func(s *Step) {
		s.resolver = r
	}
}

// NewStep builds a Step reporting to sink and emitting through
// generator. The processed set starts empty and lives as long as the
// Step, one Step per compilation session.
func NewStep(sink diag.Sink, generator *gen.Generator, opts ...StepOption) *Step {
	s := &Step{
		sink:      sink,
		modules:   validate.NewModuleValidator(),
		produces:  validate.NewProducesValidator(),
		binds:     validate.NewBindsValidator(),
		bindings:  binding.NewFactory(),
		generator: generator,
		resolver:  validate.DeclaredResolver{},
		processed: NewProcessedSet(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Processed returns the session's processed-module set.
func (s *Step) Processed() *ProcessedSet {
	return s.processed
}

// Process runs one round over the grouping and returns the modules
// whose structural pre-check failed. The host should re-offer those in
// a later round; an empty result means nothing was deferred.
func (s *Step) Process(grouping entity.Grouping) []*entity.Entity {
	// First, check and collect the round's valid produces methods,
	// then the valid binds methods. Both sets are recomputed every
	// round from that round's candidates, except methods belonging to
	// already-processed modules: those had their diagnostics reported
	// in the round that processed them, and re-offering the module must
	// not re-emit anything.
	validProduces := s.produces.Validate(s.sink, s.pending(grouping.MethodsIn(entity.MarkerProduces)))
	validBinds := s.binds.Validate(s.sink, s.pending(grouping.MethodsIn(entity.MarkerBinds)))

	var deferred []*entity.Entity
	for _, module := range grouping.Modules() {
		// Already-processed modules are skipped entirely: no
		// re-validation, no re-reporting.
		if s.processed.Contains(module) {
			s.log.Debug("skipping processed module", "module", module.Name)
			continue
		}

		// Pre-check failure defers the module to a later round; it may
		// be incomplete because its dependencies have not been
		// discovered yet. No diagnostic, not marked processed.
		if !s.resolver.FullyResolved(module) {
			s.log.Debug("deferring unresolved module", "module", module.Name)
			deferred = append(deferred, module)
			continue
		}

		s.processModule(module, validProduces, validBinds)

		// Marked processed whatever the outcome above: this was the
		// module's one real attempt for the session.
		s.processed.Add(module)
	}

	return deferred
}

// pending keeps only methods whose enclosing module has not been
// processed yet. Methods of deferred or unseen modules stay in,
// so they are re-validated when their module is re-offered.
func (s *Step) pending(methods []*entity.Entity) []*entity.Entity {
	var kept []*entity.Entity
	for _, m := range methods {
		if m.Enclosing != nil && s.processed.Contains(m.Enclosing) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func (s *Step) processModule(module *entity.Entity, validProduces, validBinds *entity.MethodSet) {
	report := s.modules.Validate(module)
	report.PrintTo(s.sink)
	if !report.Clean() {
		s.log.Debug("module report not clean", "module", module.Name)
		return
	}

	producesMethods := module.MethodsWithMarker(entity.MarkerProduces)
	bindsMethods := module.MethodsWithMarker(entity.MarkerBinds)

	// Generate only if every locally-declared candidate method passed
	// its own validation this round. A failed method already produced
	// its diagnostic; generating around it would emit incomplete code.
	if !validProduces.ContainsAll(producesMethods) || !validBinds.ContainsAll(bindsMethods) {
		s.log.Debug("module has invalid provider methods", "module", module.Name)
		return
	}

	for _, method := range producesMethods {
		b, err := s.bindings.ForProvidingMethod(method, module)
		if err != nil {
			s.sink.Report(diag.Errorf(gen.ErrGenDescriptor, method.Name, "%v", err))
			continue
		}
		if err := s.generator.Generate(b); err != nil {
			s.reportGenerationError(method, err)
		}
	}
}

// reportGenerationError converts a generation failure into a
// diagnostic pointing at the originating method. Failures are
// contained per binding.
func (s *Step) reportGenerationError(method *entity.Entity, err error) {
	var genErr *gen.GenerationError
	if errors.As(err, &genErr) {
		s.sink.Report(diag.Errorf(gen.ErrGenFailed, genErr.Binding.Method, "%v", genErr.Cause))
		return
	}
	s.sink.Report(diag.Errorf(gen.ErrGenFailed, method.Name, "%v", err))
}
