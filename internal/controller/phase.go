package controller

import "fmt"

// Phase is where the controller is in the scan, select, confirm, delete cycle
type Phase int

const (
	Idle Phase = iota
	Scanning
	Scanned
	Selecting
	PendingConfirmation
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Scanned:
		return "scanned"
	case Selecting:
		return "selecting"
	case PendingConfirmation:
		return "pending-confirmation"
	case Deleting:
		return "deleting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Trigger is something that happened to the controller
type Trigger int

const (
	StartScan Trigger = iota
	ScanDone
	Select
	RequestConfirmation
	Confirm
	DeleteDone
	Cancel
	Fail
)

func (t Trigger) String() string {
	switch t {
	case StartScan:
		return "start-scan"
	case ScanDone:
		return "scan-done"
	case Select:
		return "select"
	case RequestConfirmation:
		return "request-confirmation"
	case Confirm:
		return "confirm"
	case DeleteDone:
		return "delete-done"
	case Cancel:
		return "cancel"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// Transition returns the phase that follows p when t happens, or an error
// when t is not allowed in p. It has no side effects.
func Transition(p Phase, t Trigger) (Phase, error) {
	switch t {
	case StartScan:
		switch p {
		case Idle, Scanned, Selecting, PendingConfirmation:
			return Scanning, nil
		}
	case ScanDone:
		if p == Scanning {
			return Scanned, nil
		}
	case Select:
		switch p {
		case Scanned, Selecting, PendingConfirmation:
			return Selecting, nil
		}
	case RequestConfirmation:
		if p == Selecting {
			return PendingConfirmation, nil
		}
	case Confirm:
		if p == PendingConfirmation {
			return Deleting, nil
		}
	case DeleteDone:
		if p == Deleting {
			return Idle, nil
		}
	case Cancel, Fail:
		switch p {
		case Scanning, Deleting:
			return Idle, nil
		}
	}
	return p, fmt.Errorf("cannot %s while %s", t, p)
}
