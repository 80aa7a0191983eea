package deploy

import "fmt"

// Deploy steps reported in DeploymentFailedError.Step
const (
	StepResolveSite  = "resolve_site"
	StepCreateDeploy = "create_deploy"
	StepCreateSite   = "create_site"
	StepRetryDeploy  = "retry_deploy"
	StepUpload       = "upload"
)

// DeploymentFailedError reports the step at which a deploy stopped. StatusCode is the
// hosting API's HTTP status, or 0 when no response was received.
type DeploymentFailedError struct {
	Step       string
	StatusCode int
	Cause      error
}

func (e *DeploymentFailedError) Error() string {
	msg := fmt.Sprintf("deployment failed at %s", e.Step)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *DeploymentFailedError) Unwrap() error {
	return e.Cause
}

// APIError is a non-2xx response from the hosting API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("hosting API returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("hosting API returned status %d", e.StatusCode)
}
