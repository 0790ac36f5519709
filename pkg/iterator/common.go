package iterator

import "shardexec/pkg/tuple"

// Iterate is a generic helper function that encapsulates the common pull loop.
// It handles MoveNext/Current logic; the operator initializes itself on the
// first MoveNext. The processFunc controls iteration flow:
// - Return (false, nil) to stop iteration early
// - Return (true, nil) to continue
// - Return (_, error) to stop with error
func Iterate(op Operator, processFunc func(tuple.Row) (continueLooping bool, err error)) error {
	for {
		ok, err := op.MoveNext()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		r, err := op.Current()
		if err != nil {
			return err
		}

		shouldContinue, err := processFunc(r)
		if err != nil {
			return err
		}
		if !shouldContinue {
			return nil
		}
	}
}

// Skip consumes and discards up to n rows and returns how many were skipped.
func Skip(op Operator, n int64) (int64, error) {
	var skipped int64
	for skipped < n {
		ok, err := op.MoveNext()
		if err != nil {
			return skipped, err
		}
		if !ok {
			break
		}
		skipped++
	}
	return skipped, nil
}

// Count returns the total number of rows in the operator.
// Note: This consumes the entire stream.
func Count(op Operator) (int, error) {
	count := 0
	for {
		ok, err := op.MoveNext()
		if err != nil {
			return count, err
		}
		if !ok {
			return count, nil
		}
		count++
	}
}

// Collect returns all rows from the operator as a slice.
// Note: This consumes the entire stream and loads all rows into memory.
func Collect(op Operator) ([]tuple.Row, error) {
	var results []tuple.Row

	err := Iterate(op, func(r tuple.Row) (bool, error) {
		results = append(results, r)
		return true, nil
	})

	return results, err
}
