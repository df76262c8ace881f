package dispatch

import "context"

// Operation is a single resolvable upstream action.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent Invoke.
//   - Context: Invoke must honor cancellation/deadlines.
//   - Errors: Invoke returns *UpstreamError for remote rejections and
//     *InvalidParametersError for arity/type mismatches.
type Operation interface {
	// Name returns the operation name, e.g. "getOrganizationDevices".
	Name() string

	// HasParameter reports whether the operation declares the named
	// parameter, used for contextual default filling.
	HasParameter(name string) bool

	// Invoke executes the operation upstream with keyword parameters.
	Invoke(ctx context.Context, params map[string]any) (any, error)
}

// Collaborator is the external namespaced function table the dispatcher
// resolves calls against.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Resolve reports absence via ok=false, never via panic.
type Collaborator interface {
	// Resolve looks up an operation by section and name.
	Resolve(section, method string) (Operation, bool)

	// Sections lists the valid section names, for NotFound reporting.
	Sections() []string
}

// ParameterInfo describes one declared parameter of an operation.
type ParameterInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// OperationInfo describes a resolvable operation for discovery tooling.
type OperationInfo struct {
	Section     string          `json:"section"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Kind        string          `json:"kind"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

// Describer is an optional Collaborator extension for operation discovery
// and introspection.
type Describer interface {
	// Operations lists the operations of a section. Empty for unknown
	// sections.
	Operations(section string) []OperationInfo

	// Describe returns the full description of one operation.
	Describe(section, method string) (*OperationInfo, bool)
}
