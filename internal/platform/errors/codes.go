// Package errors provides structured, coded errors for precondition failures.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Election errors
	CodeElectorateSizeInvalid Code = "ELECTORATE_SIZE_INVALID"
	CodeTurnoutOutOfRange     Code = "TURNOUT_OUT_OF_RANGE"

	// Estimation errors
	CodeTrialCountInvalid    Code = "TRIAL_COUNT_INVALID"
	CodeProportionOutOfRange Code = "PROPORTION_OUT_OF_RANGE"
	CodeSampleSizeInvalid    Code = "SAMPLE_SIZE_INVALID"
	CodeAbstentionOutOfRange Code = "ABSTENTION_OUT_OF_RANGE"
	CodeWorkerCountInvalid   Code = "WORKER_COUNT_INVALID"
	CodeScenarioNameEmpty    Code = "SCENARIO_NAME_EMPTY"

	// Output errors
	CodeReportFormatUnknown Code = "REPORT_FORMAT_UNKNOWN"
)

// ExitStatus maps domain codes to process exit statuses.
// Input validation failures use 2, matching the flag package's usage status.
func (c Code) ExitStatus() int {
	switch c {
	case CodeElectorateSizeInvalid,
		CodeTurnoutOutOfRange,
		CodeTrialCountInvalid,
		CodeProportionOutOfRange,
		CodeSampleSizeInvalid,
		CodeAbstentionOutOfRange,
		CodeWorkerCountInvalid,
		CodeScenarioNameEmpty,
		CodeReportFormatUnknown:
		return 2
	default:
		return 1
	}
}
