package contract

import "context"

// Defaults applied when a manifest or script omits the descriptive metadata.
const (
	DefaultIcon  = "⚙️"
	DefaultColor = "#6366f1"
)

// Variants accepted for an action button. Anything else is coerced to
// VariantSecondary before it reaches the UI.
const (
	VariantPrimary   = "primary"
	VariantSuccess   = "success"
	VariantDanger    = "danger"
	VariantWarning   = "warning"
	VariantSecondary = "secondary"
)

// Module is the plugin contract. Status is queried fresh on every listing
// and must not block indefinitely; implementations that touch the external
// environment are responsible for their own timeouts. Execute makes no
// idempotence guarantee; that is the module author's problem, the
// dispatcher is a pure pass-through.
type Module interface {
	ID() string
	Name() string
	Description() string
	Icon() string
	Color() string

	Status(ctx context.Context) (map[string]any, error)
	Actions() []Action
	Execute(ctx context.Context, actionID string, params map[string]any) Result
}

// Action describes one operation a module exposes to the UI.
type Action struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Variant string `json:"variant"`
}

// Result is the tagged outcome of executing an action. There are no
// intermediate states: Success is authoritative, Message/Data accompany a
// success, Error accompanies a failure.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Descriptor is the frontend-facing fold of a module: identity, live
// status, and action list, serialized as one card.
type Descriptor struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Color       string         `json:"color"`
	Status      map[string]any `json:"status"`
	Actions     []Action       `json:"actions"`
}

// NormalizeVariant clamps an action variant to the accepted set.
func NormalizeVariant(v string) string {
	switch v {
	case VariantPrimary, VariantSuccess, VariantDanger, VariantWarning, VariantSecondary:
		return v
	}
	return VariantSecondary
}

// Ok builds a success result with an optional human-readable message.
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// OkData builds a success result carrying a free-form data payload.
func OkData(message string, data map[string]any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail builds a failure result with a human-readable error.
func Fail(err string) Result {
	return Result{Success: false, Error: err}
}
