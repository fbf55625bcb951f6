package environment

// FunctionEnder ends an episode whenever a function of the state
// returns true or, if a step limit is set, when the limit is reached.
type FunctionEnder[S any] struct {
	end   func(S) bool
	limit int
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes when
// f returns true or when limit steps were taken. A limit below 1
// disables the step limit. A nil f only ends episodes at the limit.
func NewFunctionEnder[S any](f func(S) bool, limit int) FunctionEnder[S] {
	return FunctionEnder[S]{f, limit}
}

// End determines whether or not the current episode should be ended
func (f FunctionEnder[S]) End(state S, steps int) bool {
	if f.limit > 0 && steps >= f.limit {
		return true
	}
	return f.end != nil && f.end(state)
}
