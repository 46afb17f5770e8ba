package jspull

import "github.com/arloliu/jspull/types"

// Re-export types from the types package.
//
// Subpackages depend on types rather than on the root package, which keeps
// the import graph acyclic while still offering jspull.Logger and friends.
type (
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Origin           = types.Origin
	Tally            = types.Tally
)

// Re-export Origin constants.
const (
	OriginPlain     = types.OriginPlain
	OriginJetStream = types.OriginJetStream
	OriginStatus    = types.OriginStatus
)
