package renderer

const minCodeFence = 3

// longestBacktickRun returns the length of the longest run of backticks in s.
func longestBacktickRun(s string) int {
	longest, current := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == '`' {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// codeFenceLength returns the number of backticks needed to fence a code block whose contents are literal. The fence
// is longer than any run of backticks in the literal and never shorter than three.
func codeFenceLength(literal string) int {
	return max(minCodeFence, longestBacktickRun(literal)+1)
}

// shortestUnusedBacktickRun returns the length of the shortest run of backticks that does not appear in s. A code
// span delimited by that many backticks cannot be closed early by its contents.
func shortestUnusedBacktickRun(s string) int {
	// Bit n is set if a run of n backticks appears in s. A run of zero backticks is never a delimiter.
	used := uint64(1)
	current := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] == '`' {
			current++
			continue
		}
		if current > 0 && current < 64 {
			used |= 1 << current
		}
		current = 0
	}

	n := 0
	for used&1 != 0 {
		used >>= 1
		n++
	}
	return n
}
