package jobshop

import "github.com/jobshop-sim/jobshop-sim/jobshop/shopmodel"

// ArrivalPayload accompanies JobArrivedInQueue and WSJobArrival.
type ArrivalPayload struct {
	Job *shopmodel.Job
	WS  *shopmodel.WorkStation
	Now float64
}

// SelectionPayload accompanies WSJobSelected and JobStartOperation.
type SelectionPayload struct {
	Target    shopmodel.PrioRuleTarget
	WS        *shopmodel.WorkStation
	Machine   *shopmodel.IndividualMachine
	SetupTime float64
	Now       float64
}

// OperationEndPayload accompanies JobEndOperation and WSJobCompleted.
type OperationEndPayload struct {
	Target  shopmodel.PrioRuleTarget
	WS      *shopmodel.WorkStation
	Machine *shopmodel.IndividualMachine
	Now     float64
}

// JobFinishedPayload accompanies JobFinished.
type JobFinishedPayload struct {
	Job *shopmodel.Job
	Now float64
}
