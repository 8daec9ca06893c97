package models

// Decision is what the acting player chooses after drawing.
type Decision uint8

const (
	DecisionNeither Decision = iota
	DecisionKnock
	DecisionGin
)

func (d Decision) String() string {
	switch d {
	case DecisionNeither:
		return "neither"
	case DecisionKnock:
		return "knock"
	case DecisionGin:
		return "gin"
	default:
		return "unknown"
	}
}

// ResultKind records how a hand was won.
type ResultKind string

const (
	ResultGin      ResultKind = "gin"
	ResultKnock    ResultKind = "knock"
	ResultUndercut ResultKind = "undercut"
)

// HandResult is produced once per completed hand.
type HandResult struct {
	Winner PlayerID   `json:"winner"`
	Points int        `json:"points"`
	Kind   ResultKind `json:"kind"`

	Declarer         PlayerID `json:"declarer"`
	DeclarerDeadwood int      `json:"declarerDeadwood"`
	DefenderDeadwood int      `json:"defenderDeadwood"`
}
