package proxy

import "fmt"

// ConfigurationError reports that a proxy's internal type name could not be
// resolved when the registry was finalized. Every operation bound for such a
// configuration fails with this error, in both calling conventions, until
// the process restarts with a corrected configuration.
type ConfigurationError struct {
	PublicType   string
	InternalType string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("proxy for model %q: internal model %q was not resolvable at boot", e.PublicType, e.InternalType)
}

// OperationError reports that a proxied operation name does not exist on the
// internal model. Operation names are not validated at registration; the
// check happens at invocation time.
type OperationError struct {
	Model string
	Name  string
	Scope Scope
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("model %q has no %s operation %q", e.Model, e.Scope, e.Name)
}
