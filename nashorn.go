// Package nashorn compiles function trees of a dynamic scripting language
// into validated, immutable code units.
//
// Compilation runs in two stages. The analyzer derives, per function, the
// runtime support its routine needs (variable-arity handling, callee and
// parent scope access, a materialized scope record, and so on). The
// codegen stage then emits one routine per function whose signature and
// prologue follow those attributes, through instruction streams that
// validate every emission against a shadow operand stack.
package nashorn

import (
	"github.com/rs/zerolog"

	"github.com/andyPPL/nashorn/analyzer"
	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/codegen"
	"github.com/andyPPL/nashorn/ir"
)

// Option describes a function used to configure a compilation.
type Option func(*codegen.CompileConfig)

// WithUnitName names the emitted unit.
func WithUnitName(name string) Option {
	return func(cfg *codegen.CompileConfig) {
		cfg.UnitName = name
	}
}

// WithSourceName records the name of the source being compiled.
func WithSourceName(name string) Option {
	return func(cfg *codegen.CompileConfig) {
		cfg.SourceName = name
	}
}

// WithSplitThreshold overrides the body weight above which routines are
// marked for split emission.
func WithSplitThreshold(threshold int) Option {
	return func(cfg *codegen.CompileConfig) {
		cfg.SplitThreshold = threshold
	}
}

// WithLogger supplies a logger that receives debug-level traces from the
// analyzer and the emitter.
func WithLogger(logger *zerolog.Logger) Option {
	return func(cfg *codegen.CompileConfig) {
		cfg.Logger = logger
	}
}

// WithLowering supplies the routine body lowering. Without it, every
// routine body returns undefined, which still exercises signatures,
// prologues and the unit lifecycle.
func WithLowering(lower codegen.LowerFunc) Option {
	return func(cfg *codegen.CompileConfig) {
		cfg.Lower = lower
	}
}

// Analyze derives the attribute set of a single function tree with
// default configuration.
func Analyze(fn *ir.Function) ir.AttributeSet {
	return analyzer.Analyze(fn)
}

// Compile analyzes root and every function nested in it and emits one
// unit holding all of their routines.
func Compile(root *ir.Function, opts ...Option) (*bytecode.Unit, error) {
	cfg := &codegen.CompileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return codegen.CompileFunctions(root, cfg)
}
