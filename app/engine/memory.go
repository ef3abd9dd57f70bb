package engine

import "docchat/types"

// LastTurns returns the most recent n turns in chronological order.
// Conversation memory is always derived from history through this function,
// never kept as separate state, so it is reproducible from the record alone.
func LastTurns(history []types.Turn, n int) []types.Turn {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]types.Turn, len(history))
	copy(out, history)
	return out
}
