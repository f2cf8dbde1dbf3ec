// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

package diff

import "github.com/streamhist/jsonarchive/lib/jsonvalue"

// indexPair is one (oldIdx, newIdx) correspondence between two arrays.
type indexPair struct {
	oldIdx, newIdx int
}

// longestCommonSubsequence returns the index pairs of a longest common
// subsequence of old and new under deep JSON equality, in ascending
// order of both indices. It is the backbone of the array differ (spec
// §4.4): elements on this backbone never move, add, or remove.
func longestCommonSubsequence(old, new []jsonvalue.Value) []indexPair {
	n, m := len(old), len(new)
	// dp[i][j] = LCS length of old[i:] and new[j:].
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if jsonvalue.DeepEqual(old[i], new[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	pairs := make([]indexPair, 0, dp[0][0])
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case jsonvalue.DeepEqual(old[i], new[j]):
			pairs = append(pairs, indexPair{oldIdx: i, newIdx: j})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			i++
		default:
			j++
		}
	}
	return pairs
}
