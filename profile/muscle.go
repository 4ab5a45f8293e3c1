// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package profile

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/js-arias/backbone/marker"
)

// Muscle is an Aligner
// backed by the muscle program
// in profile mode.
// The zero value is ready to use
// and looks up "muscle"
// in the executable path.
type Muscle struct {
	Cmd string // path of the muscle binary

	// Timeout for each tool invocation.
	// If zero no timeout is set.
	Timeout time.Duration
}

// Profile writes both alignments
// to a temporary directory
// and runs the external profile alignment,
// returning the merged alignment
// under the identifier of the first alignment.
func (m Muscle) Profile(ctx context.Context, a, b *marker.Alignment) (*marker.Alignment, error) {
	bin := m.Cmd
	if bin == "" {
		bin = "muscle"
	}

	dir, err := os.MkdirTemp("", "backbone-profile-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in1 := filepath.Join(dir, "in1.fasta")
	if err := a.WriteFile(in1); err != nil {
		return nil, err
	}
	in2 := filepath.Join(dir, "in2.fasta")
	if err := b.WriteFile(in2); err != nil {
		return nil, err
	}
	out := filepath.Join(dir, "out.fasta")

	if m.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, bin, "-profile", "-in1", in1, "-in2", in2, "-out", out)
	if o, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s: %v: %s", bin, err, strings.TrimSpace(string(o)))
	}

	merged, err := marker.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return merged.Clone(a.ID()), nil
}
