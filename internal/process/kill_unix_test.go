//go:build !windows

package process

import "testing"

func TestKillTree_ExitedGroup(t *testing.T) {
	t.Parallel()

	if err := KillTree(999999999); err != nil {
		t.Errorf("KillTree() on a missing group = %v, want nil", err)
	}
}
