package stake

// Status is a coarse activation state derived from delegation epochs.
type Status string

const (
	StatusActivating   Status = "activating"
	StatusActive       Status = "active"
	StatusDeactivating Status = "deactivating"
	StatusInactive     Status = "inactive"
)

// StatusAt classifies a delegation at the given epoch. Warmup and cooldown
// are assumed to complete within one epoch; the cluster's rate limiting can
// stretch both.
func StatusAt(d Delegation, epoch uint64) Status {
	if d.IsDeactivating() {
		if d.ActivationEpoch == d.DeactivationEpoch || epoch > d.DeactivationEpoch {
			return StatusInactive
		}
		return StatusDeactivating
	}
	// Bootstrap stake is recorded with the bound as its activation epoch.
	if d.ActivationEpoch == ActiveEpochBound || epoch > d.ActivationEpoch {
		return StatusActive
	}
	return StatusActivating
}

// Withdrawable reports whether a delegated account has finished cooling down.
func Withdrawable(d Delegation, epoch uint64) bool {
	return d.IsDeactivating() && epoch > d.DeactivationEpoch
}

// EpochsRemaining returns how many epochs remain until deactivated stake can
// be withdrawn.
func EpochsRemaining(d Delegation, epoch uint64) uint64 {
	if !d.IsDeactivating() || epoch > d.DeactivationEpoch {
		return 0
	}
	return d.DeactivationEpoch - epoch
}
