package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/waitfor/internal/domain"
)

// TargetChecker routes each attempt to the checker for the target's kind.
type TargetChecker struct {
	Checkers map[domain.TargetKind]Checker
}

func NewTargetChecker(tcp, http Checker) *TargetChecker {
	return &TargetChecker{Checkers: map[domain.TargetKind]Checker{
		domain.HostPortTarget: tcp,
		domain.URLTarget:      http,
	}}
}

func (m *TargetChecker) Check(ctx context.Context, target domain.Target) CheckResult {
	c, ok := m.Checkers[target.Kind]
	if !ok || c == nil {
		err := fmt.Errorf("no checker registered for %s target %s", target.Kind, target)
		return CheckResult{Message: err.Error(), Err: err}
	}
	return c.Check(ctx, target)
}
