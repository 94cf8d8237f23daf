package audithook

// Audit event actions. Each constant corresponds to one ext lifecycle hook
// and becomes the Action field of the audit event.
const (
	ActionDispatchStarted   = "dispatch.started"
	ActionDispatchCompleted = "dispatch.completed"
	ActionDispatchFailed    = "dispatch.failed"
	ActionShutdown          = "service.shutdown"
)

// Audit event categories group related actions.
const (
	CategoryDispatch = "sparrow.dispatch"
	CategoryService  = "sparrow.service"
)

// Resource types used as the Resource field in audit events.
const (
	ResourceCall    = "dispatch_call"
	ResourceService = "service"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionDispatchStarted,
		ActionDispatchCompleted,
		ActionDispatchFailed,
		ActionShutdown,
	}
}
