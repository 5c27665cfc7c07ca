package observability

// MetricPrefix namespaces every series
const MetricPrefix = "casino_"

// Label names
const (
	LabelGame      = "game"
	LabelResult    = "result"
	LabelSource    = "source"
	LabelCommand   = "command"
	LabelReason    = "reason"
	LabelOperation = "operation"
)

// Result label values
const (
	ResultWin        = "win"
	ResultLoss       = "loss"
	ResultPush       = "push"
	ResultConsistent = "consistent"
	ResultDrift      = "drift"
)
