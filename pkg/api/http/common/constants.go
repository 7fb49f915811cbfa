package common

const (
	// API_JOBS lists the caller's jobs
	API_JOBS = "/jobs"

	// API_JOB returns a single job
	API_JOB = "/jobs/{id}"

	// API_CANCEL cancels a job
	API_CANCEL = "/jobs/{id}/cancel"

	// API_SERVICE_RESPONSE is where backend executors send job updates
	API_SERVICE_RESPONSE = "/service/{id}/response"

	// API_SERVICE_RESULTS redirects to a signed URL for a stored result
	API_SERVICE_RESULTS = "/service-results/{bucket}/{key:.+}"

	// API_HEALTH is a liveness check
	API_HEALTH = "/healthz"
)

const (
	// ParamAsync on an executor update asks for the update to be queued rather than
	// applied before responding.
	ParamAsync = "async"

	ParamStatus   = "status"
	ParamError    = "error"
	ParamProgress = "progress"

	ParamLimit    = "limit"
	ParamOffset   = "offset"
	ParamStatuses = "statuses"
)

// HeaderUser is the identity header set by a trusted auth proxy
const HeaderUser = "X-Conveyor-User"
